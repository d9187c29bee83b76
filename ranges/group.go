package ranges

import (
	"slices"
	"strings"
)

// FileGroup is one family of serialized names found in a listing.
type FileGroup struct {
	Pattern string        // wildcarded form, e.g. "Pin1_1_#####.cbf"
	Range   string        // range expression over the observed numbers
	Serial  SerialPattern // DigitWidth is the widest digit run observed
	Members []string      // concrete names, sorted
}

// Extension returns the text after the last dot of the wildcarded pattern.
func (g FileGroup) Extension() string {
	if i := strings.LastIndexByte(g.Pattern, '.'); i >= 0 {
		return g.Pattern[i+1:]
	}
	return g.Pattern
}

// Numbers returns the serial numbers covered by the group, ascending.
func (g FileGroup) Numbers() []int {
	nums, err := ExpandRange(g.Range)
	if err != nil {
		return nil
	}
	return nums
}

type groupKey struct {
	prefix string
	suffix string
}

type groupAcc struct {
	width   int
	padded  bool
	nums    []int
	members []string
}

// Group partitions names into serialized families and a residual set.
//
// Names are keyed by the text around their digit run, so "img1.cbf" and
// "img0001.cbf" land in the same family; the family's width is the widest
// run seen and it renders padded when any member has a leading zero. Names
// that do not decode go to residual. Every input name appears exactly once
// in either a group's Members or residual. Groups are ordered by pattern and
// residual is sorted.
func Group(names []string) (groups []FileGroup, residual []string) {
	accs := make(map[groupKey]*groupAcc)
	for _, name := range names {
		n, p, ok := Decode(name)
		if !ok {
			residual = append(residual, name)
			continue
		}
		key := groupKey{prefix: p.Prefix, suffix: p.Suffix}
		acc, found := accs[key]
		if !found {
			acc = &groupAcc{}
			accs[key] = acc
		}
		acc.width = max(acc.width, p.DigitWidth)
		acc.padded = acc.padded || isPadded(name, p)
		acc.nums = append(acc.nums, n)
		acc.members = append(acc.members, name)
	}

	for key, acc := range accs {
		rangeExpr := FormatRange(acc.nums)
		if rangeExpr == "" {
			residual = append(residual, acc.members...)
			continue
		}
		serial := SerialPattern{Prefix: key.prefix, Suffix: key.suffix, DigitWidth: acc.width}
		members := slices.Clone(acc.members)
		slices.Sort(members)
		groups = append(groups, FileGroup{
			Pattern: serial.Render(acc.padded),
			Range:   rangeExpr,
			Serial:  serial,
			Members: members,
		})
	}

	slices.SortFunc(groups, func(a, b FileGroup) int {
		return strings.Compare(a.Pattern, b.Pattern)
	})
	slices.Sort(residual)
	return groups, residual
}

// isPadded reports whether the digit run of name starts with a zero.
func isPadded(name string, p SerialPattern) bool {
	return name[len(p.Prefix)] == '0'
}
