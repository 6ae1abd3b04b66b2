package interp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

var (
	ErrNotFound     = errors.New("interp: key not found")
	ErrNotContainer = errors.New("interp: record has no children")
)

// ParsePath splits a dotted key path. "party.0.name" yields
// ["party", "0", "name"]; an empty string yields no segments.
func ParsePath(s string) []string {
	if s == "" || s == "." {
		return nil
	}
	return strings.Split(strings.TrimPrefix(s, "."), ".")
}

// Lookup walks path from root. Each segment selects a hash value by key,
// a struct member by name, an ivar by name (with or without '@'), or an
// array element by index (negative counts from the end). Links are
// followed along the way.
func Lookup(root *marshal.Record, tbl *resolve.Table, path []string) (*marshal.Record, error) {
	cur := root
	for i, seg := range path {
		next, err := step(cur, tbl, seg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.Join(path[:i+1], "."), err)
		}
		cur = next
	}
	return tbl.Deref(cur)
}

func step(r *marshal.Record, tbl *resolve.Table, seg string) (*marshal.Record, error) {
	r, err := tbl.Deref(r)
	if err != nil {
		return nil, err
	}
	switch b := r.Body.(type) {
	case *marshal.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an index", ErrNotFound, seg)
		}
		if idx < 0 {
			idx += len(b.Elements)
		}
		if idx < 0 || idx >= len(b.Elements) {
			return nil, fmt.Errorf("%w: index %s of %d", ErrNotFound, seg, len(b.Elements))
		}
		return b.Elements[idx], nil

	case *marshal.Hash:
		return findPair(b.Pairs, tbl, seg)

	case *marshal.Struct:
		return findPair(b.Members, tbl, seg)

	case *marshal.IVar:
		if found, err := step(b.Object, tbl, seg); err == nil {
			return found, nil
		}
		if found, err := findPair(b.Variables, tbl, seg); err == nil {
			return found, nil
		}
		return findPair(b.Variables, tbl, "@"+seg)
	}
	return nil, fmt.Errorf("%w: %s at 0x%x", ErrNotContainer, r.Tag, r.Offset)
}

// findPair returns the value of the last pair whose key matches seg. A
// leading ':' on seg is accepted for symbol keys.
func findPair(pairs []marshal.Pair, tbl *resolve.Table, seg string) (*marshal.Record, error) {
	want := strings.TrimPrefix(seg, ":")
	var found *marshal.Record
	for _, p := range pairs {
		if k := Key(p.Key, tbl); k == seg || k == want {
			found = p.Value
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, seg)
	}
	return found, nil
}
