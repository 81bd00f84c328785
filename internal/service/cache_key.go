package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

// FilterParam is the parameter name carrying a FilterSpec.
const FilterParam = "filterProp"

// Cache operations. Each is also the key prefix used for bulk invalidation.
const (
	OpCountries             = "countries"
	OpCountriesOverview     = "countries-overview"
	OpUniversitiesByCountry = "universities-by-country"
	OpMajorsByUniversity    = "majors-by-university"
	OpBlogsByCountry        = "blogs-by-country"
	OpSearch                = "search"
)

// KeyDeriver builds deterministic cache keys from operation parameters.
type KeyDeriver struct {
	normalizer *FilterNormalizer
}

// NewKeyDeriver constructs a key deriver.
func NewKeyDeriver(normalizer *FilterNormalizer) *KeyDeriver {
	if normalizer == nil {
		normalizer = NewFilterNormalizer(nil)
	}
	return &KeyDeriver{normalizer: normalizer}
}

// Derive returns operation + ":" + the canonical serialization of params.
// Parameter order, filter encoding and id-set order do not affect the result.
func (d *KeyDeriver) Derive(operation string, params map[string]interface{}) string {
	canonical := make(map[string]interface{}, len(params))
	for key, value := range params {
		if key == FilterParam {
			spec := d.normalizer.NormalizeValue(value)
			if spec.IsEmpty() {
				continue
			}
			canonical[key] = json.RawMessage(spec.Canonical())
			continue
		}
		if v, ok := canonicalValue(value); ok {
			canonical[key] = v
		}
	}
	// encoding/json writes map keys in sorted order without whitespace.
	payload, err := json.Marshal(canonical)
	if err != nil {
		keys := make([]string, 0, len(canonical))
		for key := range canonical {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", key, canonical[key]))
		}
		return operation + ":" + strings.Join(parts, "&")
	}
	return operation + ":" + string(payload)
}

// canonicalValue drops empty values and orders sets.
func canonicalValue(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case []string:
		set := sortedSet(v)
		return set, len(set) > 0
	case models.PageRequest:
		return map[string]int{"page": v.Page, "limit": v.Limit}, true
	default:
		return v, true
	}
}

func sortedSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
