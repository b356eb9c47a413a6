package style

import (
	"strconv"
	"strings"
)

// This file defines the line-height specification used by the cascade. A
// line height is either a factor of the font size ("1.25x") or an absolute
// pixel value ("40", "40px").

const (
	DefaultFontSize = 32.0
	// DefaultLineHeightFactor applies when no lineHeight is given.
	DefaultLineHeightFactor = 1.25
)

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightDefault LineHeightKind = iota
	LineHeightFactor
	LineHeightAbsolute
)

// LineHeightSpec preserves original author intent: either a factor of the font size or an absolute value.
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Value  float64        `json:"value,omitempty"`
}

// ParseLineHeight parses a lineHeight property value. Unparseable or
// non-positive values fall back to LineHeightDefault.
func ParseLineHeight(value string) LineHeightSpec {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return LineHeightSpec{}
	}
	kind := LineHeightAbsolute
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "x"):
		kind = LineHeightFactor
		v = strings.TrimSuffix(v, "x")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return LineHeightSpec{}
	}
	if kind == LineHeightFactor {
		return LineHeightSpec{Kind: kind, Factor: f}
	}
	return LineHeightSpec{Kind: kind, Value: f}
}

// Resolve computes the absolute line height for the given font size.
func (s LineHeightSpec) Resolve(fontSize float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return fontSize * s.Factor
	case LineHeightAbsolute:
		return s.Value
	default:
		return fontSize * DefaultLineHeightFactor
	}
}

// String renders the spec back in property syntax.
func (s LineHeightSpec) String() string {
	switch s.Kind {
	case LineHeightFactor:
		return strconv.FormatFloat(s.Factor, 'f', -1, 64) + "x"
	case LineHeightAbsolute:
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	default:
		return ""
	}
}
