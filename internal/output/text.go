package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"

	"rxmarshal/internal/interp"
	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

// WriteText prints an indented outline of the tree rooted at r, one record
// per line, prefixed with the record's offset in hex.
//
//	000002 array[2]
//	000004   [0] hash{1}
//	000006     :a => 1
func WriteText(w io.Writer, r *marshal.Record, tbl *resolve.Table, fallback encoding.Encoding) error {
	p := &printer{w: bufio.NewWriter(w), tbl: tbl, fallback: fallback}
	p.record(r, 0, "")
	return p.w.Flush()
}

type printer struct {
	w        *bufio.Writer
	tbl      *resolve.Table
	fallback encoding.Encoding
}

func (p *printer) line(off, depth int, text string) {
	fmt.Fprintf(p.w, "%06x %s%s\n", off, strings.Repeat("  ", depth), text)
}

func (p *printer) record(r *marshal.Record, depth int, label string) {
	p.line(r.Offset, depth, label+interp.Describe(r, p.tbl, p.fallback))

	switch b := r.Body.(type) {
	case *marshal.Array:
		for i, e := range b.Elements {
			p.record(e, depth+1, fmt.Sprintf("[%d] ", i))
		}
	case *marshal.Hash:
		p.pairs(b.Pairs, depth+1)
	case *marshal.Struct:
		p.pairs(b.Members, depth+1)
	case *marshal.IVar:
		if _, ok := b.Object.Body.(*marshal.String); ok {
			// Describe already shows the text and its encoding.
			return
		}
		p.record(b.Object, depth+1, "object ")
		p.pairs(b.Variables, depth+1)
	}
}

func (p *printer) pairs(pairs []marshal.Pair, depth int) {
	for _, kv := range pairs {
		if len(kv.Key.Children()) > 0 {
			p.record(kv.Key, depth, "key ")
			p.record(kv.Value, depth, "=> ")
			continue
		}
		p.record(kv.Value, depth, interp.Describe(kv.Key, p.tbl, p.fallback)+" => ")
	}
}
