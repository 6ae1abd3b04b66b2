package output

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"rxmarshal/internal/interp"
	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

// Node is the JSON form of one record. Only the fields that apply to the
// record's tag are set.
type Node struct {
	Offset   int      `json:"offset"`
	Tag      string   `json:"tag"`
	Value    any      `json:"value,omitempty"`
	Text     string   `json:"text,omitempty"`
	Encoding string   `json:"encoding,omitempty"`
	Raw      []byte   `json:"raw,omitempty"`
	Ref      *int64   `json:"ref,omitempty"`
	Target   *int     `json:"target,omitempty"`
	Name     *Node    `json:"name,omitempty"`
	Object   *Node    `json:"object,omitempty"`
	Items    []*Node  `json:"items,omitempty"`
	Pairs    []*Entry `json:"pairs,omitempty"`
}

// Entry is one key/value pair of a hash, struct or ivar node.
type Entry struct {
	Key   *Node `json:"key"`
	Value *Node `json:"value"`
}

// Tree converts a decoded record into its JSON form. Strings are decoded
// with their recorded encoding or fallback; bytes that are not valid
// UTF-8 after decoding are emitted as raw instead. Links carry their index
// and, when tbl resolves them, the offset of their target.
func Tree(r *marshal.Record, tbl *resolve.Table, fallback encoding.Encoding) *Node {
	if r == nil {
		return nil
	}
	n := &Node{Offset: r.Offset, Tag: r.Tag.String()}

	switch b := r.Body.(type) {
	case nil:
		if v, ok := r.Bool(); ok {
			n.Value = v
		}

	case *marshal.Int:
		switch r.Tag {
		case marshal.TagSymlink:
			idx := b.Value
			n.Ref = &idx
			if name, err := tbl.SymbolName(r); err == nil {
				n.Text = name
			}
		case marshal.TagLink:
			idx := b.Value
			n.Ref = &idx
			if target, err := tbl.Deref(r); err == nil {
				off := target.Offset
				n.Target = &off
			}
		default:
			n.Value = b.Value
		}

	case *marshal.Bignum:
		n.Value = interp.BigInt(b).String()

	case *marshal.Symbol:
		n.Text = b.String()

	case *marshal.String:
		setText(n, r, b.Bytes, tbl, fallback)

	case *marshal.Unknown:
		n.Raw = b.Bytes

	case *marshal.Array:
		n.Items = make([]*Node, 0, len(b.Elements))
		for _, e := range b.Elements {
			n.Items = append(n.Items, Tree(e, tbl, fallback))
		}

	case *marshal.Hash:
		n.Pairs = entries(b.Pairs, tbl, fallback)

	case *marshal.Struct:
		n.Name = Tree(b.Name, tbl, fallback)
		n.Pairs = entries(b.Members, tbl, fallback)

	case *marshal.IVar:
		n.Object = Tree(b.Object, tbl, fallback)
		if s, ok := b.Object.Body.(*marshal.String); ok {
			n.Encoding = interp.StringEncoding(r, tbl)
			setText(n.Object, r, s.Bytes, tbl, fallback)
		}
		n.Pairs = entries(b.Variables, tbl, fallback)
	}
	return n
}

func setText(n *Node, r *marshal.Record, raw []byte, tbl *resolve.Table, fallback encoding.Encoding) {
	n.Raw = nil
	n.Text = ""
	s, err := interp.Text(r, tbl, fallback)
	if err == nil && utf8.ValidString(s) {
		n.Text = s
		return
	}
	n.Raw = raw
}

func entries(pairs []marshal.Pair, tbl *resolve.Table, fallback encoding.Encoding) []*Entry {
	out := make([]*Entry, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, &Entry{
			Key:   Tree(p.Key, tbl, fallback),
			Value: Tree(p.Value, tbl, fallback),
		})
	}
	return out
}
