package predicate

import "strings"

// Record exposes field values for in-memory evaluation. Numeric fields should
// be returned as float64 or int, tag lists as []map[string]string.
type Record interface {
	Lookup(field string) (interface{}, bool)
}

// Match evaluates the predicate against a single record.
func Match(p Predicate, rec Record) bool {
	if p == nil {
		return true
	}
	switch n := p.(type) {
	case Eq:
		v, ok := rec.Lookup(n.Field)
		return ok && equal(v, n.Value)
	case In:
		v, ok := rec.Lookup(n.Field)
		if !ok {
			return false
		}
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, candidate := range n.Values {
			if candidate == s {
				return true
			}
		}
		return false
	case Range:
		v, ok := rec.Lookup(n.Field)
		if !ok {
			return false
		}
		f, ok := toFloat(v)
		return ok && f >= n.Min && f <= n.Max
	case Contains:
		v, ok := rec.Lookup(n.Field)
		return ok && contains(v, n.Sub, n.Value)
	case And:
		for _, member := range n {
			if !Match(member, rec) {
				return false
			}
		}
		return true
	case Or:
		for _, member := range n {
			if Match(member, rec) {
				return true
			}
		}
		return false
	}
	return false
}

func contains(v interface{}, sub, needle string) bool {
	needle = strings.ToLower(needle)
	switch typed := v.(type) {
	case string:
		return sub == "" && strings.Contains(strings.ToLower(typed), needle)
	case []map[string]string:
		if sub == "" {
			return false
		}
		for _, elem := range typed {
			if strings.Contains(strings.ToLower(elem[sub]), needle) {
				return true
			}
		}
	}
	return false
}

func equal(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	switch ta := a.(type) {
	case string:
		tb, ok := b.(string)
		return ok && ta == tb
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
