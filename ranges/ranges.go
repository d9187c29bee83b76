package ranges

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Span is an inclusive run of integers. A single number has Start == End.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	if s.Start == s.End {
		return strconv.Itoa(s.Start)
	}
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// ParseRange splits a range expression into spans.
// Tokens are separated by commas; when the text holds no comma at all the
// tokens are separated by whitespace instead.
func ParseRange(txt string) ([]Span, error) {
	var tokens []string
	if strings.Contains(txt, ",") {
		tokens = strings.Split(txt, ",")
	} else {
		tokens = strings.Fields(txt)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrMalformedRange)
	}

	spans := make([]Span, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		parts := strings.Split(token, "-")
		switch len(parts) {
		case 1:
			n, err := parseBound(token, parts[0])
			if err != nil {
				return nil, err
			}
			spans = append(spans, Span{Start: n, End: n})
		case 2:
			start, err := parseBound(token, parts[0])
			if err != nil {
				return nil, err
			}
			end, err := parseBound(token, parts[1])
			if err != nil {
				return nil, err
			}
			spans = append(spans, Span{Start: start, End: end})
		default:
			return nil, fmt.Errorf("%w: %q has more than one '-'", ErrMalformedRange, token)
		}
	}
	return spans, nil
}

func parseBound(token, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer range token", ErrMalformedRange, token)
	}
	return n, nil
}

// SpansToList expands spans into the integers they cover, in span order.
// A span whose end lies before its start covers nothing.
func SpansToList(spans []Span) []int {
	var result []int
	for _, s := range spans {
		for n := s.Start; n <= s.End; n++ {
			result = append(result, n)
		}
	}
	return result
}

// ExpandRange parses a range expression and returns the integers it covers.
func ExpandRange(txt string) ([]int, error) {
	spans, err := ParseRange(txt)
	if err != nil {
		return nil, err
	}
	return SpansToList(spans), nil
}

// Compress sorts and deduplicates nums and merges consecutive integers into
// maximal spans. The input slice is not modified.
func Compress(nums []int) []Span {
	if len(nums) == 0 {
		return nil
	}
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var spans []Span
	current := Span{Start: sorted[0], End: sorted[0]}
	for _, n := range sorted[1:] {
		if n == current.End+1 {
			current.End = n
			continue
		}
		spans = append(spans, current)
		current = Span{Start: n, End: n}
	}
	return append(spans, current)
}

// FormatRange renders nums as a comma-joined range expression, e.g.
// {1,2,3,5,10,11,13,14,15,16} becomes "1-3,5,10-11,13-16".
func FormatRange(nums []int) string {
	spans := Compress(nums)
	tokens := make([]string, len(spans))
	for i, s := range spans {
		tokens[i] = s.String()
	}
	return strings.Join(tokens, ",")
}
