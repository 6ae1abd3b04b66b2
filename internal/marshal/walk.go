package marshal

import (
	"errors"
	"sort"
)

// SkipChildren can be returned by a WalkFunc to skip the children of the
// current record without stopping the walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for each record during Walk.
type WalkFunc func(r *Record, depth int) error

// Walk visits root and every nested record in encoding order: containers
// before their children, struct names and ivar objects before their pairs,
// and each pair's key before its value.
func Walk(root *Record, fn WalkFunc) error {
	if root == nil {
		return nil
	}
	err := walk(root, 0, fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walk(r *Record, depth int, fn WalkFunc) error {
	if err := fn(r, depth); err != nil {
		return err
	}
	for _, c := range r.Children() {
		err := walk(c, depth+1, fn)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes a decoded tree.
type Stats struct {
	Records  int         `json:"records"`
	MaxDepth int         `json:"max_depth"`
	ByTag    map[Tag]int `json:"-"`
	Symbols  int         `json:"symbols"`
	Objects  int         `json:"objects"`
	Links    int         `json:"links"`
}

// TagCount is one row of Stats.Sorted.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CountTags walks root and tallies records by tag.
func CountTags(root *Record) Stats {
	st := Stats{ByTag: make(map[Tag]int)}
	Walk(root, func(r *Record, depth int) error {
		st.Records++
		st.ByTag[r.Tag]++
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		switch {
		case r.Tag == TagSymbol:
			st.Symbols++
		case r.Tag == TagSymlink || r.Tag == TagLink:
			st.Links++
		case r.Tag.Registers():
			st.Objects++
		}
		return nil
	})
	return st
}

// Sorted returns per-tag counts, most frequent first.
func (st Stats) Sorted() []TagCount {
	byName := make(map[string]int, len(st.ByTag))
	for tag, n := range st.ByTag {
		byName[tag.String()] += n
	}
	out := make([]TagCount, 0, len(byName))
	for name, n := range byName {
		out = append(out, TagCount{Tag: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
