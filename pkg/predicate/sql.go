package predicate

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// Columns maps logical field names to SQL column expressions.
type Columns map[string]string

var subKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Compile renders the predicate as a PostgreSQL boolean expression. Placeholders
// are numbered from argOffset+1 so the clause can be appended to existing args.
func Compile(p Predicate, columns Columns, argOffset int) (string, []interface{}, error) {
	c := &compiler{columns: columns, offset: argOffset}
	clause, err := c.compile(p)
	if err != nil {
		return "", nil, err
	}
	return clause, c.args, nil
}

type compiler struct {
	columns Columns
	offset  int
	args    []interface{}
}

func (c *compiler) bind(value interface{}) string {
	c.args = append(c.args, value)
	return fmt.Sprintf("$%d", c.offset+len(c.args))
}

func (c *compiler) column(field string) (string, error) {
	col, ok := c.columns[field]
	if !ok {
		return "", fmt.Errorf("predicate: unknown field %q", field)
	}
	return col, nil
}

func (c *compiler) compile(p Predicate) (string, error) {
	if p == nil {
		return "TRUE", nil
	}
	switch n := p.(type) {
	case Eq:
		col, err := c.column(n.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", col, c.bind(n.Value)), nil
	case In:
		col, err := c.column(n.Field)
		if err != nil {
			return "", err
		}
		if len(n.Values) == 0 {
			return "FALSE", nil
		}
		return fmt.Sprintf("%s = ANY(%s)", col, c.bind(pq.Array(n.Values))), nil
	case Range:
		col, err := c.column(n.Field)
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, 2)
		if !math.IsInf(n.Min, -1) {
			parts = append(parts, fmt.Sprintf("%s >= %s", col, c.bind(n.Min)))
		}
		if !math.IsInf(n.Max, 1) {
			parts = append(parts, fmt.Sprintf("%s <= %s", col, c.bind(n.Max)))
		}
		if len(parts) == 0 {
			return fmt.Sprintf("%s IS NOT NULL", col), nil
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " AND ") + ")", nil
	case Contains:
		col, err := c.column(n.Field)
		if err != nil {
			return "", err
		}
		pattern := "%" + likeEscaper.Replace(n.Value) + "%"
		if n.Sub == "" {
			return fmt.Sprintf("%s ILIKE %s", col, c.bind(pattern)), nil
		}
		if !subKeyPattern.MatchString(n.Sub) {
			return "", fmt.Errorf("predicate: invalid sub-field %q", n.Sub)
		}
		return fmt.Sprintf("EXISTS (SELECT 1 FROM jsonb_array_elements(%s) AS elem WHERE elem->>'%s' ILIKE %s)", col, n.Sub, c.bind(pattern)), nil
	case And:
		return c.group([]Predicate(n), " AND ", "TRUE")
	case Or:
		return c.group([]Predicate(n), " OR ", "FALSE")
	default:
		return "", fmt.Errorf("predicate: unsupported node %T", p)
	}
}

func (c *compiler) group(members []Predicate, sep, empty string) (string, error) {
	if len(members) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(members))
	for _, member := range members {
		clause, err := c.compile(member)
		if err != nil {
			return "", err
		}
		parts = append(parts, clause)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}
