// Package seed writes a simulated beamline landing area: a few users,
// date stamps and pucks with screening images, collected frames and the
// derived-result directories left behind by on-site processing, plus a
// matching user database.
package seed

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dendrascience/sbdatacore/ranges"
)

// Run is one puck session of one user.
type Run struct {
	User      string
	Date      string
	Container string
	Pin       string
	Collect   bool
}

// DefaultRuns is the canonical simulated landing area.
var DefaultRuns = []Run{
	{User: "kamala", Date: "12323", Container: "snoopy", Pin: "Pin1", Collect: true},
	{User: "kamala", Date: "121223", Container: "peanut", Pin: "Pin2", Collect: true},
	{User: "mike", Date: "010124", Container: "mother", Pin: "Pin1", Collect: false},
	{User: "mike", Date: "021224", Container: "mother", Pin: "Pin2", Collect: true},
	{User: "mike", Date: "021224", Container: "mother", Pin: "Pin3", Collect: true},
}

// UserDB is the user database matching DefaultRuns.
const UserDB = `#NERSC FACILITY
kharris kamala
mpence mike
mpence mikey
`

// ScreenExtensions are written for every screening image.
var ScreenExtensions = []string{"cbf", "txt", "jpg"}

// Methods are the derived-result directories written next to collected frames.
var Methods = []string{"XDS", "DIALS"}

// Options controls how much data each run produces.
type Options struct {
	ScreenSets  int    // screening sets per pin, each of two images
	CollectSets int    // collection sets per pin
	Frames      string // range expression of frames per collection set
}

// DefaultOptions mirror a short screening-then-collect session.
var DefaultOptions = Options{ScreenSets: 1, CollectSets: 1, Frames: "1-12"}

// Build writes DefaultRuns below base/incoming with DefaultOptions, creates
// base/data and writes base/data.base. It returns the paths of every file
// written below incoming.
func Build(base string) ([]string, error) {
	return BuildWith(base, DefaultOptions)
}

// BuildWith is Build with explicit options.
func BuildWith(base string, opts Options) ([]string, error) {
	incoming := filepath.Join(base, "incoming")
	if err := os.MkdirAll(filepath.Join(base, "data"), 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(incoming, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(base, "data.base"), []byte(UserDB), 0o644); err != nil {
		return nil, err
	}

	var written []string
	for _, r := range DefaultRuns {
		files, err := WriteRun(incoming, r, opts)
		if err != nil {
			return written, err
		}
		written = append(written, files...)
	}
	return written, nil
}

// WriteRun writes the files of one run below incoming and returns their paths.
func WriteRun(incoming string, r Run, opts Options) ([]string, error) {
	container := filepath.Join(incoming, r.User, r.Date, r.Container)
	var written []string

	screen := filepath.Join(container, "screen")
	for set := range opts.ScreenSets {
		for image := 1; image <= 2; image++ {
			for _, ext := range ScreenExtensions {
				name := fmt.Sprintf("%s_%d_%05d.%s", r.Pin, set, image, ext)
				path, err := touch(screen, name)
				if err != nil {
					return written, err
				}
				written = append(written, path)
			}
		}
	}

	if !r.Collect {
		return written, nil
	}
	collect := filepath.Join(container, "collect")
	for set := 1; set <= opts.CollectSets; set++ {
		pattern, err := ranges.ParsePattern(fmt.Sprintf("%s_%d_#####.cbf", r.Pin, set))
		if err != nil {
			return written, err
		}
		names, err := pattern.NamesFromRange(opts.Frames)
		if err != nil {
			return written, err
		}
		for _, name := range names {
			path, err := touch(collect, name)
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
		for _, method := range Methods {
			dir := filepath.Join(collect, fmt.Sprintf("%s_%s_%d", method, r.Pin, set))
			path, err := touch(dir, "results.txt")
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

// touch creates dir and a file named name inside it holding a random UUID.
func touch(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(uuid.New().String()+"\n"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
