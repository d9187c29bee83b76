// Package facility understands the directory layout written by the
// beamline under its landing area:
//
//	<root>/<facility user>/<date stamp>/<container>/<subtype>/...
//
// where the container is usually a sample puck and the subtype one of the
// acquisition locations ("screen", "collect").
package facility

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrRootMarkerNotFound = errors.New("root marker not found in path")

// Identity is the structured form of a path below the landing root.
// Missing trailing segments are left empty; an empty Subtype means the path
// stops at the container.
type Identity struct {
	Root      string
	User      string
	DateToken string
	Container string
	Subtype   string
}

// ContainerPath joins the identity back into the container directory.
func (id Identity) ContainerPath() string {
	return filepath.Join(id.Root, id.User, id.DateToken, id.Container)
}

// HasSubtype reports whether the parsed path reached below the container.
func (id Identity) HasSubtype() bool {
	return id.Subtype != ""
}

// Parse locates the first occurrence of rootMarker in path and assigns the
// segments after it, in order, to user, date stamp, container and subtype.
// Segments past the fourth are ignored.
func Parse(path, rootMarker string) (Identity, error) {
	idx := strings.Index(path, rootMarker)
	if rootMarker == "" || idx < 0 {
		return Identity{}, fmt.Errorf("%w: %q in %q", ErrRootMarkerNotFound, rootMarker, path)
	}
	end := idx + len(rootMarker)
	id := Identity{Root: path[:end]}

	rest := strings.Trim(path[end:], string(filepath.Separator))
	if rest == "" {
		return id, nil
	}
	segments := strings.SplitN(rest, string(filepath.Separator), 5)
	fields := []*string{&id.User, &id.DateToken, &id.Container, &id.Subtype}
	for i, field := range fields {
		if i < len(segments) {
			*field = segments[i]
		}
	}
	return id, nil
}
