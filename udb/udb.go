// Package udb reads the user database that maps storage identities (the
// accounts owning data in the archive) to facility user names (the
// directories the beamline writes under the landing area).
//
// The file is line oriented:
//
//	#NERSC FACILITY
//	kharris kamala
//	mpence  mike
//	mpence  mikey
//
// Lines starting with '#' are comments; the first two whitespace-separated
// fields of any other line are the storage identity and the facility user.
// Lines with fewer than two fields are ignored.
package udb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

var (
	ErrAmbiguousIdentity = errors.New("facility user maps to more than one storage identity")
	ErrUnknownIdentity   = errors.New("facility user has no storage identity")
)

// DB holds both directions of the mapping.
type DB struct {
	byFacility map[string]map[string]struct{}
	byStorage  map[string][]string
}

// New returns an empty database.
func New() *DB {
	return &DB{
		byFacility: make(map[string]map[string]struct{}),
		byStorage:  make(map[string][]string),
	}
}

// Add records that storage owns the data of facilityUser. Duplicate pairs
// are recorded once.
func (db *DB) Add(storage, facilityUser string) {
	ids, ok := db.byFacility[facilityUser]
	if !ok {
		ids = make(map[string]struct{})
		db.byFacility[facilityUser] = ids
	}
	if _, dup := ids[storage]; dup {
		return
	}
	ids[storage] = struct{}{}
	db.byStorage[storage] = append(db.byStorage[storage], facilityUser)
}

// Parse reads a user database from r.
func Parse(r io.Reader) (*DB, error) {
	db := New()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		db.Add(fields[0], fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading user database: %w", err)
	}
	return db, nil
}

// Load reads the user database at path.
func Load(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Lookup returns the single storage identity of facilityUser.
func (db *DB) Lookup(facilityUser string) (string, error) {
	ids := db.byFacility[facilityUser]
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrUnknownIdentity, facilityUser)
	case 1:
		for id := range ids {
			return id, nil
		}
	}
	names := make([]string, 0, len(ids))
	for id := range ids {
		names = append(names, id)
	}
	slices.Sort(names)
	return "", fmt.Errorf("%w: %q is claimed by %s", ErrAmbiguousIdentity, facilityUser, strings.Join(names, ", "))
}

// Resolve implements the planner's identity resolver.
func (db *DB) Resolve(facilityUser string) (string, error) {
	return db.Lookup(facilityUser)
}

// ByStorage returns storage identity -> facility users, each list in file
// order.
func (db *DB) ByStorage() map[string][]string {
	out := make(map[string][]string, len(db.byStorage))
	for k, v := range db.byStorage {
		out[k] = slices.Clone(v)
	}
	return out
}

// StorageIdentities returns every storage identity, sorted.
func (db *DB) StorageIdentities() []string {
	ids := make([]string, 0, len(db.byStorage))
	for id := range db.byStorage {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len is the number of distinct facility users.
func (db *DB) Len() int {
	return len(db.byFacility)
}
