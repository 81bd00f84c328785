package handler

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/internal/service"
)

// PagingConfig bounds page sizes accepted from clients.
type PagingConfig struct {
	DefaultLimit int
	MaxLimit     int
	ChildLimit   int
}

// scalarFilterParams are accepted as top-level query parameters and override
// the matching filterProp fields. The All sentinel clears the field.
var scalarFilterParams = []string{
	"Destination", "StudyLevel", "EntranceExam", "UniType", "IntakeYear", "IntakeMonth",
	"minBudget", "maxBudget", "ModeOfStudy", "MajorDuration", "CourseDuration", "searchQuery",
}

type queryParser struct {
	normalizer *service.FilterNormalizer
	paging     PagingConfig
}

func (p queryParser) parse(c *gin.Context) service.SearchRequest {
	query := c.Request.URL.Query()
	filter := p.normalizer.ApplyScalars(p.normalizer.Normalize(rawFilter(query)), scalarFilters(query))

	child := p.paging.ChildLimit
	return service.SearchRequest{
		Filter:         filter,
		Page:           models.NewPageRequest(query.Get("page"), query.Get("limit"), p.paging.DefaultLimit, p.paging.MaxLimit),
		UniversityPage: models.NewPageRequest(query.Get("universityPage"), query.Get("universityLimit"), child, p.paging.MaxLimit),
		MajorPage:      models.NewPageRequest(query.Get("majorPage"), query.Get("majorLimit"), child, p.paging.MaxLimit),
		BlogPage:       models.NewPageRequest(query.Get("blogPage"), query.Get("blogLimit"), child, p.paging.MaxLimit),
		CountryIDs:     idSet(query, "countryIds"),
		UniversityIDs:  idSet(query, "universityIds"),
	}
}

// rawFilter resolves filterProp into the tagged union: a plain value is the
// encoded form, bracketed keys (filterProp[Destination][]=x) the structured one.
func rawFilter(query url.Values) models.RawFilter {
	if encoded := query.Get(service.FilterParam); encoded != "" {
		return models.EncodedFilter(encoded)
	}
	structured := map[string]interface{}{}
	prefix := service.FilterParam + "["
	for key, values := range query {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		path := bracketPath(strings.TrimPrefix(key, service.FilterParam))
		if len(path) == 0 {
			continue
		}
		assign(structured, path, values)
	}
	return models.StructuredFilter(structured)
}

// bracketPath splits "[a][b][]" into ["a", "b", ""].
func bracketPath(s string) []string {
	var path []string
	for strings.HasPrefix(s, "[") {
		end := strings.Index(s, "]")
		if end < 0 {
			return nil
		}
		path = append(path, s[1:end])
		s = s[end+1:]
	}
	if s != "" {
		return nil
	}
	return path
}

func assign(dst map[string]interface{}, path []string, values []string) {
	key := path[0]
	if key == "" {
		return
	}
	rest := path[1:]
	switch {
	case len(rest) == 0:
		if len(values) == 1 {
			dst[key] = values[0]
		} else {
			dst[key] = append([]string(nil), values...)
		}
	case rest[0] == "" || isIndex(rest[0]):
		existing, _ := dst[key].([]string)
		dst[key] = append(existing, values...)
	default:
		nested, ok := dst[key].(map[string]interface{})
		if !ok {
			nested = map[string]interface{}{}
			dst[key] = nested
		}
		assign(nested, rest, values)
	}
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func scalarFilters(query url.Values) map[string]interface{} {
	out := map[string]interface{}{}
	for _, name := range scalarFilterParams {
		if value := strings.TrimSpace(query.Get(name)); value != "" {
			out[name] = value
		}
	}
	if values := query["Destination[]"]; len(values) > 0 {
		out["Destination"] = values
	} else if values := query["Destination"]; len(values) > 1 {
		out["Destination"] = values
	}
	text := map[string]interface{}{}
	for _, lang := range []string{models.TagLangEN, models.TagLangAR} {
		if value := strings.TrimSpace(query.Get("searchQuery[" + lang + "]")); value != "" {
			text[lang] = value
		}
	}
	if len(text) > 0 {
		out["searchQuery"] = text
	}
	return out
}

// idSet accepts comma-separated, repeated and bracketed forms.
func idSet(query url.Values, name string) []string {
	raw := append(append([]string(nil), query[name]...), query[name+"[]"]...)
	seen := map[string]struct{}{}
	var ids []string
	for _, value := range raw {
		for _, id := range strings.Split(value, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
