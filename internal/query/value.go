package query

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// Value is a typed predicate operand.
type Value interface {
	valueNode()
	String() string
}

// Matcher is a value that can match a string: literals, globs and
// regular expressions.
type Matcher interface {
	Value
	Match(s string) bool
}

// LiteralValue matches a string exactly, or case-insensitively when
// Fold is set.
type LiteralValue struct {
	Text string
	Fold bool
}

func (v *LiteralValue) valueNode() {}

func (v *LiteralValue) Match(s string) bool {
	if v.Fold {
		return strings.EqualFold(s, v.Text)
	}
	return s == v.Text
}

func (v *LiteralValue) String() string { return v.Text }

// GlobValue matches a string against a compiled glob pattern.
type GlobValue struct {
	Pattern  string
	compiled glob.Glob
}

// NewGlobValue compiles the pattern eagerly so malformed globs surface
// as parse errors instead of match-time failures.
func NewGlobValue(pattern string) (*GlobValue, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &GlobValue{Pattern: pattern, compiled: g}, nil
}

func (v *GlobValue) valueNode() {}

func (v *GlobValue) Match(s string) bool { return v.compiled.Match(s) }

func (v *GlobValue) String() string { return v.Pattern }

// RegexValue matches a string against a compiled regular expression.
type RegexValue struct {
	Pattern     string
	Insensitive bool
	compiled    *regexp.Regexp
}

// NewRegexValue compiles the pattern, prepending (?i) for the
// case-insensitive form.
func NewRegexValue(pattern string, insensitive bool) (*RegexValue, error) {
	expr := pattern
	if insensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RegexValue{Pattern: pattern, Insensitive: insensitive, compiled: re}, nil
}

func (v *RegexValue) valueNode() {}

func (v *RegexValue) Match(s string) bool { return v.compiled.MatchString(s) }

func (v *RegexValue) String() string {
	if v.Insensitive {
		return "ri\"" + v.Pattern + "\""
	}
	return "r\"" + v.Pattern + "\""
}

// NumberValue is a plain integer operand: sizes in bytes, depths,
// user and group ids.
type NumberValue struct {
	N int64
}

func (v *NumberValue) valueNode() {}

func (v *NumberValue) String() string { return fmt.Sprintf("%d", v.N) }

// TimeValue is an absolute instant derived from the "now" anchor plus
// an offset. The offset is kept for rendering.
type TimeValue struct {
	Instant time.Time
	Offset  time.Duration
}

func (v *TimeValue) valueNode() {}

func (v *TimeValue) String() string {
	switch {
	case v.Offset < 0:
		return fmt.Sprintf("now-%v", -v.Offset)
	case v.Offset > 0:
		return fmt.Sprintf("now+%v", v.Offset)
	default:
		return "now"
	}
}

// PermValue is an octal permission bit set.
type PermValue struct {
	Bits uint32
}

func (v *PermValue) valueNode() {}

func (v *PermValue) String() string { return fmt.Sprintf("%o", v.Bits) }

// TypeValue is a file classification label.
type TypeValue struct {
	Label string
}

func (v *TypeValue) valueNode() {}

func (v *TypeValue) String() string { return v.Label }

var classLabels = map[string]string{
	"text":    "text",
	"app":     "app",
	"archive": "archive",
	"audio":   "audio",
	"book":    "book",
	"doc":     "doc",
	"font":    "font",
	"img":     "img",
	"image":   "img",
	"vid":     "vid",
	"video":   "vid",
}

// LookupClassLabel resolves a type label or its long form to the
// canonical label.
func LookupClassLabel(name string) (string, bool) {
	label, ok := classLabels[strings.ToLower(name)]
	return label, ok
}

var sizeUnits = map[string]int64{
	"B":  1,
	"Kb": 1 << 10,
	"K":  1 << 10,
	"Mb": 1 << 20,
	"M":  1 << 20,
	"Gb": 1 << 30,
	"G":  1 << 30,
	"Tb": 1 << 40,
	"T":  1 << 40,
}

// LookupSizeUnit resolves a size unit suffix to its byte multiplier.
func LookupSizeUnit(name string) (int64, bool) {
	mult, ok := sizeUnits[name]
	return mult, ok
}

var timeUnits = map[string]time.Duration{
	"s":      time.Second,
	"secs":   time.Second,
	"m":      time.Minute,
	"min":    time.Minute,
	"mins":   time.Minute,
	"minute": time.Minute,
	"h":      time.Hour,
	"hour":   time.Hour,
	"d":      24 * time.Hour,
	"day":    24 * time.Hour,
}

// LookupTimeUnit resolves a duration unit to its length.
func LookupTimeUnit(name string) (time.Duration, bool) {
	d, ok := timeUnits[name]
	return d, ok
}
