package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FilterSpec is the canonical set of optional search constraints. A zero
// field is never an active constraint.
type FilterSpec struct {
	Destination  []string        `json:"Destination,omitempty"`
	StudyLevel   string          `json:"StudyLevel,omitempty"`
	EntranceExam *bool           `json:"EntranceExam,omitempty"`
	UniType      string          `json:"UniType,omitempty"`
	IntakeMonth  string          `json:"IntakeMonth,omitempty"`
	IntakeYear   string          `json:"IntakeYear,omitempty"`
	MinBudget    *float64        `json:"minBudget,omitempty"`
	MaxBudget    *float64        `json:"maxBudget,omitempty"`
	Duration     *DurationRange  `json:"MajorDuration,omitempty"`
	ModeOfStudy  string          `json:"ModeOfStudy,omitempty"`
	SearchQuery  *BilingualQuery `json:"searchQuery,omitempty"`
}

// IsEmpty reports whether no constraint is active.
func (f FilterSpec) IsEmpty() bool {
	return len(f.Destination) == 0 && f.StudyLevel == "" && f.EntranceExam == nil &&
		f.UniType == "" && f.IntakeMonth == "" && f.IntakeYear == "" &&
		f.MinBudget == nil && f.MaxBudget == nil && f.Duration == nil &&
		f.ModeOfStudy == "" && f.SearchQuery == nil
}

// HasMajorConstraints reports whether any constraint targets majors.
func (f FilterSpec) HasMajorConstraints() bool {
	f = f.Finite()
	return f.StudyLevel != "" || f.IntakeMonth != "" || f.IntakeYear != "" ||
		f.MinBudget != nil || f.MaxBudget != nil || f.Duration != nil || f.ModeOfStudy != ""
}

// Finite returns f without NaN or infinite budgets. Such budgets are never
// active constraints.
func (f FilterSpec) Finite() FilterSpec {
	f.MinBudget = finiteOrNil(f.MinBudget)
	f.MaxBudget = finiteOrNil(f.MaxBudget)
	return f
}

// Canonical returns the deterministic JSON form used in cache keys.
func (f FilterSpec) Canonical() string {
	payload, err := json.Marshal(f.Finite())
	if err != nil {
		panic(fmt.Sprintf("models: encode filter spec: %v", err))
	}
	return string(payload)
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// Merge returns f with every active field of override applied on top.
func (f FilterSpec) Merge(override FilterSpec) FilterSpec {
	out := f
	if len(override.Destination) > 0 {
		out.Destination = override.Destination
	}
	if override.StudyLevel != "" {
		out.StudyLevel = override.StudyLevel
	}
	if override.EntranceExam != nil {
		out.EntranceExam = override.EntranceExam
	}
	if override.UniType != "" {
		out.UniType = override.UniType
	}
	if override.IntakeMonth != "" {
		out.IntakeMonth = override.IntakeMonth
	}
	if override.IntakeYear != "" {
		out.IntakeYear = override.IntakeYear
	}
	if override.MinBudget != nil {
		out.MinBudget = override.MinBudget
	}
	if override.MaxBudget != nil {
		out.MaxBudget = override.MaxBudget
	}
	if override.Duration != nil {
		out.Duration = override.Duration
	}
	if override.ModeOfStudy != "" {
		out.ModeOfStudy = override.ModeOfStudy
	}
	if override.SearchQuery != nil {
		out.SearchQuery = override.SearchQuery
	}
	return out
}

// BilingualQuery carries independent free-text terms per language.
type BilingualQuery struct {
	EN string `json:"en,omitempty"`
	AR string `json:"ar,omitempty"`
}

// DurationRange is a closed interval expressed in months. Max is +Inf for
// open-ended ranges such as "36+".
type DurationRange struct {
	Min float64
	Max float64
}

// OpenEnded reports whether the range has no upper bound.
func (d DurationRange) OpenEnded() bool {
	return math.IsInf(d.Max, 1)
}

// String renders the range as "24-36" or "36+".
func (d DurationRange) String() string {
	min := strconv.FormatFloat(d.Min, 'f', -1, 64)
	if d.OpenEnded() {
		return min + "+"
	}
	return min + "-" + strconv.FormatFloat(d.Max, 'f', -1, 64)
}

// MarshalJSON encodes the range in its textual form.
func (d DurationRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes the textual form.
func (d *DurationRange) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseDurationRange(raw)
	if !ok {
		return fmt.Errorf("invalid duration range %q", raw)
	}
	*d = parsed
	return nil
}

var durationCleaner = strings.NewReplacer("–", "-", "—", "-", " ", "", "months", "", "Months", "")

// ParseDurationRange parses "24-36", "24–36", "36+" or a single value "12".
func ParseDurationRange(raw string) (DurationRange, bool) {
	s := durationCleaner.Replace(strings.TrimSpace(raw))
	if s == "" {
		return DurationRange{}, false
	}
	if strings.HasSuffix(s, "+") {
		min, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64)
		if err != nil || min < 0 {
			return DurationRange{}, false
		}
		return DurationRange{Min: min, Max: math.Inf(1)}, true
	}
	parts := strings.SplitN(s, "-", 2)
	min, err := strconv.ParseFloat(parts[0], 64)
	if err != nil || min < 0 {
		return DurationRange{}, false
	}
	if len(parts) == 1 {
		return DurationRange{Min: min, Max: min}, true
	}
	max, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || max < 0 {
		return DurationRange{}, false
	}
	if max < min {
		min, max = max, min
	}
	return DurationRange{Min: min, Max: max}, true
}

// RawFilterKind identifies the shape a filter payload arrived in.
type RawFilterKind int

const (
	RawFilterAbsent RawFilterKind = iota
	RawFilterStructured
	RawFilterEncoded
)

// RawFilter is a filter payload before normalization: absent, a structured
// mapping, or a (possibly URL-encoded) JSON string.
type RawFilter struct {
	Kind       RawFilterKind
	Structured map[string]interface{}
	Encoded    string
}

// StructuredFilter wraps an already-decoded mapping.
func StructuredFilter(m map[string]interface{}) RawFilter {
	if len(m) == 0 {
		return RawFilter{}
	}
	return RawFilter{Kind: RawFilterStructured, Structured: m}
}

// EncodedFilter wraps a JSON string that may still be percent-encoded.
func EncodedFilter(s string) RawFilter {
	if strings.TrimSpace(s) == "" {
		return RawFilter{}
	}
	return RawFilter{Kind: RawFilterEncoded, Encoded: s}
}
