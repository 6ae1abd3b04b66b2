package interp

import (
	"fmt"
	"strconv"

	"github.com/elliotchance/orderedmap/v3"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

// Key renders a record as a lookup key: symbols and strings by their text,
// integers in decimal, nil/true/false by name. Other records get a
// positional placeholder such as "array@0x1f".
func Key(r *marshal.Record, tbl *resolve.Table) string {
	if s, err := Text(r, tbl, nil); err == nil {
		return s
	}
	if v, err := Value(r, tbl); err == nil {
		return v.String()
	}
	if r.IsNil() {
		return "nil"
	}
	if v, ok := r.Bool(); ok {
		return strconv.FormatBool(v)
	}
	return fmt.Sprintf("%s@0x%x", r.Tag, r.Offset)
}

// Pairs returns the key/value pairs of a hash, the members of a struct,
// or the pairs of the hash or struct wrapped by an ivar record.
func Pairs(r *marshal.Record, tbl *resolve.Table) ([]marshal.Pair, error) {
	r, err := tbl.Deref(r)
	if err != nil {
		return nil, err
	}
	switch b := r.Body.(type) {
	case *marshal.Hash:
		return b.Pairs, nil
	case *marshal.Struct:
		return b.Members, nil
	case *marshal.IVar:
		return Pairs(b.Object, tbl)
	}
	return nil, fmt.Errorf("%w: %s at 0x%x", ErrNotContainer, r.Tag, r.Offset)
}

// HashView returns the pairs of a hash or struct keyed by Key, in encoding
// order. A key seen twice keeps its first position and its last value,
// which is how Ruby rebuilds such a hash.
func HashView(r *marshal.Record, tbl *resolve.Table) (*orderedmap.OrderedMap[string, *marshal.Record], error) {
	pairs, err := Pairs(r, tbl)
	if err != nil {
		return nil, err
	}
	m := orderedmap.NewOrderedMap[string, *marshal.Record]()
	for _, p := range pairs {
		m.Set(Key(p.Key, tbl), p.Value)
	}
	return m, nil
}
