package ranges

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Wildcard is the glyph that stands for one digit in a rendered pattern.
const Wildcard = '#'

// serialName matches the last digit run that sits directly before the final
// dot-delimited extension.
var serialName = regexp.MustCompile(`(\d+)(\.[^.]+)$`)

// SerialPattern describes the family of names Prefix + pad(n, DigitWidth) + Suffix.
type SerialPattern struct {
	Prefix     string
	Suffix     string
	DigitWidth int
}

// Decode splits name into its serial number and the pattern of its family.
// ok is false when name has no digit run immediately before its extension.
func Decode(name string) (n int, p SerialPattern, ok bool) {
	m := serialName.FindStringSubmatchIndex(name)
	if m == nil {
		return 0, SerialPattern{}, false
	}
	digits := name[m[2]:m[3]]
	n, err := strconv.Atoi(digits)
	if err != nil {
		// digit run too long for an int
		return 0, SerialPattern{}, false
	}
	return n, SerialPattern{
		Prefix:     name[:m[2]],
		Suffix:     name[m[4]:],
		DigitWidth: len(digits),
	}, true
}

// Encode is shorthand for p.Name(n).
func Encode(p SerialPattern, n int) string {
	return p.Name(n)
}

// Name returns the member of the family numbered n, zero-padded on the left
// to DigitWidth characters. Numbers wider than DigitWidth are never truncated.
func (p SerialPattern) Name(n int) string {
	return p.Prefix + fmt.Sprintf("%0*d", p.DigitWidth, n) + p.Suffix
}

// Render returns the wildcarded form of the pattern. A padded family shows
// one wildcard per digit ("img_###.cbf"); an unpadded family, whose members
// vary in width, shows a single wildcard ("img_#.cbf").
func (p SerialPattern) Render(padded bool) string {
	width := 1
	if padded && p.DigitWidth > 1 {
		width = p.DigitWidth
	}
	return p.Prefix + strings.Repeat(string(Wildcard), width) + p.Suffix
}

// String renders the pattern with one wildcard per digit.
func (p SerialPattern) String() string {
	return p.Render(true)
}

// ParsePattern reads a wildcard template such as "lysozyme_1_####.img".
// The first run of wildcards marks the serial number and its width; any
// later wildcard glyph belongs to the suffix literally.
func ParsePattern(template string) (SerialPattern, error) {
	start := strings.IndexRune(template, Wildcard)
	if start < 0 {
		return SerialPattern{}, fmt.Errorf("%w: %q", ErrNoWildcard, template)
	}
	end := start
	for end < len(template) && template[end] == Wildcard {
		end++
	}
	return SerialPattern{
		Prefix:     template[:start],
		Suffix:     template[end:],
		DigitWidth: end - start,
	}, nil
}

// NamesFromList generates one name per number, in the order given.
func (p SerialPattern) NamesFromList(nums []int) []string {
	names := make([]string, len(nums))
	for i, n := range nums {
		names[i] = p.Name(n)
	}
	return names
}

// NamesFromRange generates the names covered by a range expression.
func (p SerialPattern) NamesFromRange(txt string) ([]string, error) {
	nums, err := ExpandRange(txt)
	if err != nil {
		return nil, err
	}
	return p.NamesFromList(nums), nil
}
