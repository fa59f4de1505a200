// Package company derives company metadata (size range, segment,
// name) from the free-text fields captured off profile pages.
package company

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// EmployeeRange is a parsed headcount descriptor. Min and Max are nil
// when the corresponding bound is unknown; Raw preserves the input.
type EmployeeRange struct {
	Min *int   `json:"min"`
	Max *int   `json:"max"`
	Raw string `json:"raw"`
}

// Segment labels, a fixed size taxonomy. Tier thresholds are inclusive
// at the upper bound: a 50-person company is still a Scale-up.
const (
	SegmentStartup     = "Startup"
	SegmentScaleup     = "Scale-up"
	SegmentPME         = "PME"
	SegmentETI         = "ETI"
	SegmentGrandGroupe = "Grand groupe"
)

// number: digits with optional thousands separators and decimal part,
// optionally scaled by a k/m suffix.
const num = `(\d+(?:[,\x{202f}\x{00a0} ]\d{3})*(?:\.\d+)?)\s*([kKmM])?`

var (
	spaceVariants = strings.NewReplacer(
		"\u00a0", " ", // no-break space
		"\u202f", " ", // narrow no-break space
		"\u2009", " ", // thin space
		"\u2007", " ", // figure space
	)

	openRange   = regexp.MustCompile(`^\s*` + num + `\s*\+`)
	closedRange = regexp.MustCompile(num + `\s*[-\x{2013}\x{2014}]\s*` + num)
	bareNumber  = regexp.MustCompile(num)
)

// ParseEmployeeRange extracts a numeric headcount range from a free-text
// size descriptor ("10,000+ employees", "201 - 500", "2.5k–10k", "50").
// It returns nil when no numeric pattern is found.
func ParseEmployeeRange(raw string) *EmployeeRange {
	s := strings.TrimSpace(spaceVariants.Replace(raw))
	if s == "" {
		return nil
	}

	if m := openRange.FindStringSubmatch(s); m != nil {
		if n, ok := parseNumber(m[1], m[2]); ok {
			return &EmployeeRange{Min: &n, Raw: raw}
		}
	}
	if m := closedRange.FindStringSubmatch(s); m != nil {
		lo, okLo := parseNumber(m[1], m[2])
		hi, okHi := parseNumber(m[3], m[4])
		if okLo && okHi {
			return &EmployeeRange{Min: &lo, Max: &hi, Raw: raw}
		}
	}
	if m := bareNumber.FindStringSubmatch(s); m != nil {
		if n, ok := parseNumber(m[1], m[2]); ok {
			return &EmployeeRange{Min: &n, Max: &n, Raw: raw}
		}
	}
	return nil
}

// parseNumber resolves a digit group with optional thousands separators
// and k/m suffix to a plain integer.
func parseNumber(digits, suffix string) (int, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' {
			return -1
		}
		return r
	}, digits)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(suffix) {
	case "k":
		f *= 1_000
	case "m":
		f *= 1_000_000
	}
	return int(math.Round(f)), true
}

// Point returns the single headcount value a range collapses to for
// segmentation: max, else min, else zero.
func (r *EmployeeRange) Point() int {
	if r == nil {
		return 0
	}
	if r.Max != nil && *r.Max != 0 {
		return *r.Max
	}
	if r.Min != nil && *r.Min != 0 {
		return *r.Min
	}
	return 0
}

// MaxOrMin returns the upper bound, falling back to the lower one; nil
// when neither is known.
func (r *EmployeeRange) MaxOrMin() *int {
	if r == nil {
		return nil
	}
	if r.Max != nil {
		return r.Max
	}
	return r.Min
}

// Segment maps a headcount range to its size-segment label. A nil range
// or one with no usable bound yields the empty string (segment unknown,
// not a fault).
func Segment(r *EmployeeRange) string {
	point := r.Point()
	if point == 0 {
		return ""
	}
	switch {
	case point <= 10:
		return SegmentStartup
	case point <= 50:
		return SegmentScaleup
	case point <= 250:
		return SegmentPME
	case point <= 1000:
		return SegmentETI
	default:
		return SegmentGrandGroupe
	}
}
