package planner

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"
)

// Kind tells the executor whether a move relocates a single file or a
// whole derived-result directory.
type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case File, Directory:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown move kind %d", int(k))
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "file":
		*k = File
	case "directory":
		*k = Directory
	default:
		return fmt.Errorf("unknown move kind %q", text)
	}
	return nil
}

// MoveItem relocates Source into the directory Destination. The entry keeps
// its base name.
type MoveItem struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Kind        Kind   `json:"kind"`
	Sample      string `json:"sample"`
	Method      string `json:"method,omitempty"`
}

// Target is the path the entry will have once moved.
func (m MoveItem) Target() string {
	return filepath.Join(m.Destination, filepath.Base(m.Source))
}

// Inventory maps a source container path to its sample identifiers,
// sorted and unique.
type Inventory map[string][]string

// Containers returns the inventory's container paths, sorted.
func (inv Inventory) Containers() []string {
	paths := make([]string, 0, len(inv))
	for p := range inv {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// TopLevel is a per-date destination directory whose permissions are
// finalized once every move has been applied.
type TopLevel struct {
	Path        string `json:"path"`
	StorageUser string `json:"storage_user"`
	Date        string `json:"date"`
}

// Skip records a container left out of the plan.
type Skip struct {
	Container string `json:"container"`
	Reason    string `json:"reason"`
}

// Plan is the complete, write-once list of moves for one run.
type Plan struct {
	RunID     string     `json:"run_id,omitempty"`
	Created   time.Time  `json:"created"`
	Items     []MoveItem `json:"items"`
	Dates     []string   `json:"dates"`
	TopLevel  []TopLevel `json:"top_level"`
	Unmatched []string   `json:"unmatched,omitempty"`
	Skipped   []Skip     `json:"skipped,omitempty"`
}

// Files returns the file moves of the plan.
func (p *Plan) Files() []MoveItem {
	return p.ofKind(File)
}

// Directories returns the derived-result directory moves of the plan.
func (p *Plan) Directories() []MoveItem {
	return p.ofKind(Directory)
}

func (p *Plan) ofKind(k Kind) []MoveItem {
	var out []MoveItem
	for _, item := range p.Items {
		if item.Kind == k {
			out = append(out, item)
		}
	}
	return out
}

// Collisions returns, sorted, every source selected by more than one
// sample. This happens when one sample identifier is a substring of another
// ("Pin1" and "Pin10"); only the first move of such a source can succeed.
func (p *Plan) Collisions() []string {
	seen := make(map[string]int, len(p.Items))
	for _, item := range p.Items {
		seen[item.Source]++
	}
	var out []string
	for src, n := range seen {
		if n > 1 {
			out = append(out, src)
		}
	}
	slices.Sort(out)
	return out
}
