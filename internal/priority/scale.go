package priority

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// MinNiceness is the most favored value on the scale.
	MinNiceness = -19
	// MaxNiceness is the least favored value on the scale.
	MaxNiceness = 19
)

// ErrInvalidNiceness is returned for values outside [MinNiceness, MaxNiceness]
// and for tokens that are neither integers nor known symbolic names.
var ErrInvalidNiceness = errors.New("invalid niceness")

// Class is a coarse scheduling bucket, ordered from most to least favored.
type Class int

const (
	RealTime Class = iota
	High
	AboveNormal
	Normal
	BelowNormal
	Idle
)

// Classes lists every class from most to least favored.
var Classes = []Class{RealTime, High, AboveNormal, Normal, BelowNormal, Idle}

var classNames = map[Class]string{
	RealTime:    "RealTime",
	High:        "High",
	AboveNormal: "AboveNormal",
	Normal:      "Normal",
	BelowNormal: "BelowNormal",
	Idle:        "Idle",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Range is an inclusive niceness interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether n lies inside the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

// classRanges is the source of truth; byNiceness is its inversion.
var classRanges = map[Class]Range{
	RealTime:    {Min: -19, Max: -19},
	High:        {Min: -18, Max: -10},
	AboveNormal: {Min: -9, Max: -1},
	Normal:      {Min: 0, Max: 0},
	BelowNormal: {Min: 1, Max: 10},
	Idle:        {Min: 11, Max: 19},
}

var byNiceness = invert(classRanges)

func invert(ranges map[Class]Range) map[int]Class {
	out := make(map[int]Class, MaxNiceness-MinNiceness+1)
	for class, r := range ranges {
		for n := r.Min; n <= r.Max; n++ {
			if prev, dup := out[n]; dup {
				panic(fmt.Sprintf("niceness %d maps to both %s and %s", n, prev, class))
			}
			out[n] = class
		}
	}
	for n := MinNiceness; n <= MaxNiceness; n++ {
		if _, ok := out[n]; !ok {
			panic(fmt.Sprintf("niceness %d has no priority class", n))
		}
	}
	return out
}

// RangeOf returns the niceness interval that collapses into c.
func RangeOf(c Class) (Range, bool) {
	r, ok := classRanges[c]
	return r, ok
}

// ClassFor maps a niceness value onto its priority class.
func ClassFor(niceness int) (Class, error) {
	class, ok := byNiceness[niceness]
	if !ok {
		return 0, fmt.Errorf("%w: %d is outside %d..%d", ErrInvalidNiceness, niceness, MinNiceness, MaxNiceness)
	}
	return class, nil
}

// ClassForHost maps a niceness reported by the OS, which may use a wider scale
// (e.g. -20 on Linux), by clamping it into range first.
func ClassForHost(niceness int) Class {
	if niceness < MinNiceness {
		niceness = MinNiceness
	}
	if niceness > MaxNiceness {
		niceness = MaxNiceness
	}
	return byNiceness[niceness]
}

// representatives are the values symbolic names resolve to. High, AboveNormal
// and BelowNormal use interior values rather than range edges.
var representatives = map[Class]int{
	RealTime:    -19,
	High:        -10,
	AboveNormal: -8,
	Normal:      0,
	BelowNormal: 8,
	Idle:        19,
}

// Representative returns the niceness written for c on hosts that take a
// numeric priority.
func Representative(c Class) int {
	return representatives[c]
}

var symbols = map[string]Class{
	"realtime":     RealTime,
	"real-time":    RealTime,
	"rt":           RealTime,
	"high":         High,
	"abovenormal":  AboveNormal,
	"above-normal": AboveNormal,
	"above":        AboveNormal,
	"normal":       Normal,
	"belownormal":  BelowNormal,
	"below-normal": BelowNormal,
	"below":        BelowNormal,
	"idle":         Idle,
}

// Symbols returns the recognized symbolic names for c, sorted.
func Symbols(c Class) []string {
	var out []string
	for name, class := range symbols {
		if class == c {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ParseNiceness accepts an integer in range or a case-insensitive symbolic name.
func ParseNiceness(token string) (int, error) {
	clean := strings.ToLower(strings.TrimSpace(token))
	if class, ok := symbols[clean]; ok {
		return representatives[class], nil
	}
	n, err := strconv.Atoi(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is neither an integer nor a known priority name", ErrInvalidNiceness, token)
	}
	if n < MinNiceness || n > MaxNiceness {
		return 0, fmt.Errorf("%w: unable to set priority to %d, try a value from %d (lowest) to %d", ErrInvalidNiceness, n, MaxNiceness, MinNiceness)
	}
	return n, nil
}
