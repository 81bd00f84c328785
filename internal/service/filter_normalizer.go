package service

import (
	"encoding/json"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

// sentinelAll disables a facet.
const sentinelAll = "All"

// FilterNormalizer resolves raw filter payloads into a canonical FilterSpec.
type FilterNormalizer struct {
	logger *zap.Logger
}

// NewFilterNormalizer constructs a normalizer.
func NewFilterNormalizer(logger *zap.Logger) *FilterNormalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterNormalizer{logger: logger}
}

// Normalize converts the tagged union into a FilterSpec. Malformed payloads
// are logged and produce an empty spec.
func (n *FilterNormalizer) Normalize(raw models.RawFilter) models.FilterSpec {
	switch raw.Kind {
	case models.RawFilterStructured:
		payload, err := json.Marshal(raw.Structured)
		if err != nil {
			n.logger.Warn("filter payload not serializable", zap.Error(err))
			return models.FilterSpec{}
		}
		return n.fromJSON(string(payload))
	case models.RawFilterEncoded:
		return n.fromJSON(decodeFilterString(raw.Encoded))
	default:
		return models.FilterSpec{}
	}
}

// NormalizeValue accepts any of the shapes a filter may take inside a cache
// parameter map.
func (n *FilterNormalizer) NormalizeValue(value interface{}) models.FilterSpec {
	switch v := value.(type) {
	case nil:
		return models.FilterSpec{}
	case models.FilterSpec:
		return n.fromJSON(v.Canonical())
	case *models.FilterSpec:
		if v == nil {
			return models.FilterSpec{}
		}
		return n.fromJSON(v.Canonical())
	case models.RawFilter:
		return n.Normalize(v)
	case string:
		return n.Normalize(models.EncodedFilter(v))
	case []byte:
		return n.Normalize(models.EncodedFilter(string(v)))
	case map[string]interface{}:
		return n.Normalize(models.StructuredFilter(v))
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			n.logger.Warn("unsupported filter value", zap.Error(err))
			return models.FilterSpec{}
		}
		return n.fromJSON(string(payload))
	}
}

// NormalizeScalars reads individual query parameters through the same rules
// as the structured filter.
func (n *FilterNormalizer) NormalizeScalars(values map[string]interface{}) models.FilterSpec {
	if len(values) == 0 {
		return models.FilterSpec{}
	}
	return n.Normalize(models.StructuredFilter(values))
}

// ApplyScalars merges scalar query parameters over spec. A scalar carrying
// only the All sentinel clears the matching field instead of being ignored.
func (n *FilterNormalizer) ApplyScalars(spec models.FilterSpec, values map[string]interface{}) models.FilterSpec {
	out := spec.Merge(n.NormalizeScalars(values))
	for name, value := range values {
		if onlySentinel(value) {
			out = clearFacet(out, name)
		}
	}
	return out
}

func onlySentinel(value interface{}) bool {
	var items []string
	switch v := value.(type) {
	case string:
		items = []string{v}
	case []string:
		items = v
	case []interface{}:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return false
			}
			items = append(items, s)
		}
	default:
		return false
	}
	for _, item := range items {
		if !strings.EqualFold(strings.TrimSpace(item), sentinelAll) {
			return false
		}
	}
	return len(items) > 0
}

func clearFacet(spec models.FilterSpec, name string) models.FilterSpec {
	switch strings.ToLower(name) {
	case "destination":
		spec.Destination = nil
	case "studylevel":
		spec.StudyLevel = ""
	case "entranceexam":
		spec.EntranceExam = nil
	case "unitype":
		spec.UniType = ""
	case "intakemonth":
		spec.IntakeMonth = ""
	case "intakeyear":
		spec.IntakeYear = ""
	case "minbudget":
		spec.MinBudget = nil
	case "maxbudget":
		spec.MaxBudget = nil
	case "majorduration", "courseduration", "duration":
		spec.Duration = nil
	case "modeofstudy":
		spec.ModeOfStudy = ""
	case "searchquery":
		spec.SearchQuery = nil
	}
	return spec
}

// decodeFilterString strips percent-encoding until the payload looks like JSON.
func decodeFilterString(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < 3 && strings.Contains(s, "%"); i++ {
		if strings.HasPrefix(s, "{") && gjson.Valid(s) {
			break
		}
		decoded, err := url.QueryUnescape(s)
		if err != nil || decoded == s {
			break
		}
		s = strings.TrimSpace(decoded)
	}
	return s
}

func (n *FilterNormalizer) fromJSON(payload string) models.FilterSpec {
	var spec models.FilterSpec
	if payload == "" {
		return spec
	}
	if !gjson.Valid(payload) {
		n.logger.Warn("invalid filter payload, ignoring", zap.String("payload", truncate(payload, 256)))
		return spec
	}
	root := gjson.Parse(payload)
	if !root.IsObject() {
		n.logger.Warn("filter payload is not an object, ignoring", zap.String("type", root.Type.String()))
		return spec
	}

	fields := indexFields(root)

	if v, ok := fields.get("destination"); ok {
		spec.Destination = stringSet(v)
	}
	if s, ok := fields.text("studylevel"); ok {
		spec.StudyLevel = s
	}
	if v, ok := fields.get("entranceexam"); ok {
		if b, ok := lenientBool(v); ok {
			spec.EntranceExam = &b
		}
	}
	if s, ok := fields.text("unitype"); ok {
		spec.UniType = s
	}
	if s, ok := fields.text("intakemonth"); ok {
		spec.IntakeMonth = s
	}
	if s, ok := fields.text("intakeyear"); ok {
		spec.IntakeYear = s
	}
	if v, ok := fields.get("minbudget"); ok {
		if f, ok := lenientFloat(v); ok {
			spec.MinBudget = &f
		}
	}
	if v, ok := fields.get("maxbudget"); ok {
		if f, ok := lenientFloat(v); ok {
			spec.MaxBudget = &f
		}
	}
	for _, alias := range []string{"majorduration", "courseduration", "duration"} {
		if s, ok := fields.text(alias); ok {
			if r, ok := models.ParseDurationRange(s); ok {
				spec.Duration = &r
				break
			}
			n.logger.Debug("ignoring unparseable duration", zap.String("value", s))
		}
	}
	if s, ok := fields.text("modeofstudy"); ok {
		spec.ModeOfStudy = s
	}
	if v, ok := fields.get("searchquery"); ok {
		spec.SearchQuery = bilingual(v)
	}
	return spec
}

type fieldIndex map[string]gjson.Result

// indexFields keys the top-level members case-insensitively. The first
// occurrence wins.
func indexFields(root gjson.Result) fieldIndex {
	out := fieldIndex{}
	root.ForEach(func(key, value gjson.Result) bool {
		k := strings.ToLower(key.String())
		if _, exists := out[k]; !exists {
			out[k] = value
		}
		return true
	})
	return out
}

func (f fieldIndex) get(name string) (gjson.Result, bool) {
	v, ok := f[name]
	if !ok || v.Type == gjson.Null {
		return gjson.Result{}, false
	}
	return v, true
}

// text returns an active scalar: present, non-empty and not the "All" sentinel.
func (f fieldIndex) text(name string) (string, bool) {
	v, ok := f.get(name)
	if !ok {
		return "", false
	}
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 0 {
			return "", false
		}
		v = arr[0]
	}
	if v.IsObject() {
		return "", false
	}
	s := strings.TrimSpace(v.String())
	if s == "" || strings.EqualFold(s, sentinelAll) {
		return "", false
	}
	return s, true
}

func stringSet(v gjson.Result) []string {
	var raw []string
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			raw = append(raw, item.String())
		}
	case v.Type == gjson.String:
		raw = strings.Split(v.String(), ",")
	default:
		raw = []string{v.String()}
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" || strings.EqualFold(item, sentinelAll) {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func lenientBool(v gjson.Result) (bool, bool) {
	switch v.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	case gjson.Number:
		return v.Num != 0, true
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "yes", "true", "1", "required":
			return true, true
		case "no", "false", "0", "not required":
			return false, true
		}
	}
	return false, false
}

// lenientFloat accepts numbers and numeric strings. NaN and infinities are
// malformed budgets.
func lenientFloat(v gjson.Result) (float64, bool) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		s := strings.TrimSpace(strings.ReplaceAll(v.Str, ",", ""))
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func bilingual(v gjson.Result) *models.BilingualQuery {
	var q models.BilingualQuery
	if v.IsObject() {
		q.EN = strings.TrimSpace(v.Get(models.TagLangEN).String())
		q.AR = strings.TrimSpace(v.Get(models.TagLangAR).String())
	} else {
		q.EN = strings.TrimSpace(v.String())
	}
	if q.EN == "" && q.AR == "" {
		return nil
	}
	return &q
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
