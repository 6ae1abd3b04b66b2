// Package resolve builds the symbol and object back-reference tables of a
// decoded Marshal tree and resolves links against them.
//
// Tables are built by a separate walk in encoding order, so the decoder
// itself stays stateless. Symbols are registered as ':' records are met;
// objects are registered when a string, bignum, array, hash, struct or
// extension placeholder is met, container before children.
package resolve

import (
	"errors"
	"fmt"

	"rxmarshal/internal/marshal"
)

var (
	ErrDangling = errors.New("resolve: link index out of range")
	ErrNotLink  = errors.New("resolve: record is not a symbol or symlink")
	ErrCycle    = errors.New("resolve: link chain does not terminate")
)

// Table holds the symbol and object tables of one document.
type Table struct {
	Symbols []*marshal.Record
	Objects []*marshal.Record
}

// Build walks root and fills both tables.
func Build(root *marshal.Record) *Table {
	t := &Table{}
	marshal.Walk(root, func(r *marshal.Record, _ int) error {
		switch {
		case r.Tag == marshal.TagSymbol:
			t.Symbols = append(t.Symbols, r)
		case r.Tag.Registers():
			t.Objects = append(t.Objects, r)
		}
		return nil
	})
	return t
}

// Symbol returns the symbol named by a ':' or ';' record.
func (t *Table) Symbol(r *marshal.Record) (*marshal.Symbol, error) {
	switch r.Tag {
	case marshal.TagSymbol:
		return r.Body.(*marshal.Symbol), nil
	case marshal.TagSymlink:
		idx, _ := r.LinkIndex()
		if t == nil || idx < 0 || idx >= int64(len(t.Symbols)) {
			return nil, fmt.Errorf("%w: symlink %d at 0x%x", ErrDangling, idx, r.Offset)
		}
		return t.Symbols[idx].Body.(*marshal.Symbol), nil
	}
	return nil, fmt.Errorf("%w: %s at 0x%x", ErrNotLink, r.Tag, r.Offset)
}

// SymbolName is Symbol followed by conversion to a Go string.
func (t *Table) SymbolName(r *marshal.Record) (string, error) {
	sym, err := t.Symbol(r)
	if err != nil {
		return "", err
	}
	return sym.String(), nil
}

// Deref follows an object link to the record it refers to. Any other
// record is returned unchanged. A nil table leaves links unresolved and
// reports ErrDangling.
func (t *Table) Deref(r *marshal.Record) (*marshal.Record, error) {
	for hops := 0; r.Tag == marshal.TagLink; hops++ {
		idx, _ := r.LinkIndex()
		if t == nil || idx < 0 || idx >= int64(len(t.Objects)) {
			return nil, fmt.Errorf("%w: object link %d at 0x%x", ErrDangling, idx, r.Offset)
		}
		if hops > len(t.Objects) {
			return nil, ErrCycle
		}
		r = t.Objects[idx]
	}
	return r, nil
}

// Check resolves every link under root and returns the first failure.
func (t *Table) Check(root *marshal.Record) error {
	return marshal.Walk(root, func(r *marshal.Record, _ int) error {
		switch r.Tag {
		case marshal.TagSymlink:
			_, err := t.Symbol(r)
			return err
		case marshal.TagLink:
			_, err := t.Deref(r)
			return err
		}
		return nil
	})
}
