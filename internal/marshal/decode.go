// Package marshal decodes Ruby Marshal 4.8 data into a tree of records.
//
// The decoder is a single-pass recursive descent over an in-memory buffer.
// It does not build symbol or object tables; links are returned as index
// records and can be resolved afterwards with package resolve.
package marshal

import (
	"fmt"
	"io"
	"os"

	"rxmarshal/internal/rbfmt"
)

// Version is the only supported format version, major 4 minor 8.
var Version = [2]byte{4, 8}

// Document is a decoded Marshal stream.
type Document struct {
	Version  [2]byte      `json:"version"`
	Root     *Record      `json:"-"`
	Consumed int          `json:"consumed"` // bytes read including the header
	Trailing int          `json:"trailing"` // bytes left after the root record
	Mode     rbfmt.Mode   `json:"mode"`
	Diags    []rbfmt.Diag `json:"diagnostics,omitempty"`
}

// Decode reads the version header and exactly one root record from data.
// Trailing bytes are reported in Document.Trailing and are not an error.
func Decode(data []byte, opts rbfmt.Options) (*Document, error) {
	s := rbfmt.NewStream(data)

	hdr, err := s.ReadBytes(2)
	if err != nil {
		return nil, err
	}
	if hdr[0] != Version[0] || hdr[1] != Version[1] {
		return nil, &rbfmt.VersionError{Expected: Version[:], Actual: hdr}
	}

	d := &decoder{
		s:           s,
		mode:        opts.Mode,
		maxDepth:    opts.EffectiveMaxDepth(),
		maxElements: opts.EffectiveMaxElements(),
	}
	root, err := d.record(0)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:  [2]byte{hdr[0], hdr[1]},
		Root:     root,
		Consumed: s.Position(),
		Trailing: s.Remaining(),
		Mode:     opts.Mode,
	}
	if doc.Trailing > 0 {
		d.diags.Addf(s.Position(), rbfmt.DiagTrailing, "%d bytes after root record", doc.Trailing)
	}
	doc.Diags = d.diags.Items()
	return doc, nil
}

// DecodeReader reads r to the end and decodes the result.
func DecodeReader(r io.Reader, opts rbfmt.Options) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("marshal: read: %w", err)
	}
	return Decode(data, opts)
}

// DecodeFile reads the named file and decodes it.
func DecodeFile(path string, opts rbfmt.Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return Decode(data, opts)
}

type decoder struct {
	s           *rbfmt.Stream
	mode        rbfmt.Mode
	maxDepth    int
	maxElements int
	diags       rbfmt.Diags
}

// record reads one tag byte and its payload. depth is the nesting level of
// the record being read; the root is at depth 0.
func (d *decoder) record(depth int) (*Record, error) {
	off := d.s.Position()
	if depth >= d.maxDepth {
		return nil, &rbfmt.Error{
			Kind:   rbfmt.ErrDepthExceeded,
			Offset: off,
			Detail: fmt.Sprintf("limit %d", d.maxDepth),
		}
	}

	b, err := d.s.ReadByte()
	if err != nil {
		return nil, err
	}
	rec := &Record{Tag: Tag(b), Offset: off}

	switch rec.Tag {
	case TagNil, TagNilLegacy, TagTrue, TagFalse:
		// no payload

	case TagFixnum, TagSymlink, TagLink:
		p, err := d.s.ReadPackedInt()
		if err != nil {
			return nil, err
		}
		rec.Body = &Int{p}

	case TagBignum:
		rec.Body, err = d.bignum()

	case TagString:
		rec.Body, err = d.str()

	case TagSymbol:
		rec.Body, err = d.symbol()

	case TagArray:
		rec.Body, err = d.array(depth)

	case TagHash:
		rec.Body, err = d.hash(depth)

	case TagStruct:
		rec.Body, err = d.rstruct(depth)

	case TagIVar:
		rec.Body, err = d.ivar(depth)

	case TagExtObject, TagExtTilde, TagExtDelete:
		if d.mode != rbfmt.ModeRelaxed {
			return nil, &rbfmt.Error{
				Kind:   rbfmt.ErrUnsupportedTag,
				Offset: off,
				Detail: fmt.Sprintf("%s (0x%02x) requires relaxed mode", rec.Tag, b),
			}
		}
		d.diags.Addf(off, rbfmt.DiagUnknownTag, "%s decoded as raw bytes", rec.Tag)
		rec.Body, err = d.unknown()

	default:
		return nil, &rbfmt.Error{
			Kind:   rbfmt.ErrUnsupportedTag,
			Offset: off,
			Detail: fmt.Sprintf("0x%02x", b),
		}
	}

	if err != nil {
		return nil, err
	}
	return rec, nil
}

// count reads a container size and checks it against the element cap.
func (d *decoder) count() (rbfmt.PackedInt, error) {
	off := d.s.Position()
	n, err := d.s.ReadLength()
	if err != nil {
		return rbfmt.PackedInt{}, err
	}
	if n.Value > int64(d.maxElements) {
		return rbfmt.PackedInt{}, &rbfmt.Error{
			Kind:   rbfmt.ErrMalformedLength,
			Offset: off,
			Detail: fmt.Sprintf("count %d exceeds limit %d", n.Value, d.maxElements),
		}
	}
	return n, nil
}

// capacity bounds a preallocation by what the remaining input could hold.
func (d *decoder) capacity(n int64, minSize int) int {
	limit := int64(d.s.Remaining() / minSize)
	if n < limit {
		return int(n)
	}
	return int(limit)
}

// bytes reads a length-prefixed byte payload.
func (d *decoder) bytes() (rbfmt.PackedInt, []byte, error) {
	n, err := d.s.ReadLength()
	if err != nil {
		return rbfmt.PackedInt{}, nil, err
	}
	if n.Value > int64(d.s.Remaining()) {
		return rbfmt.PackedInt{}, nil, &rbfmt.Error{
			Kind:   rbfmt.ErrTruncated,
			Offset: d.s.Position(),
			Detail: fmt.Sprintf("want %d bytes, have %d", n.Value, d.s.Remaining()),
		}
	}
	b, err := d.s.ReadBytes(int(n.Value))
	if err != nil {
		return rbfmt.PackedInt{}, nil, err
	}
	return n, b, nil
}

func (d *decoder) str() (*String, error) {
	n, b, err := d.bytes()
	if err != nil {
		return nil, err
	}
	return &String{Len: n, Bytes: b}, nil
}

func (d *decoder) symbol() (*Symbol, error) {
	n, b, err := d.bytes()
	if err != nil {
		return nil, err
	}
	return &Symbol{Len: n, Name: b}, nil
}

func (d *decoder) unknown() (*Unknown, error) {
	n, b, err := d.bytes()
	if err != nil {
		return nil, err
	}
	return &Unknown{Len: n, Bytes: b}, nil
}

func (d *decoder) bignum() (*Bignum, error) {
	off := d.s.Position()
	sign, err := d.s.ReadByte()
	if err != nil {
		return nil, err
	}
	if sign != '+' && sign != '-' {
		return nil, &rbfmt.Error{
			Kind:   rbfmt.ErrMalformed,
			Offset: off,
			Detail: fmt.Sprintf("bignum sign 0x%02x", sign),
		}
	}
	words, err := d.s.ReadLength()
	if err != nil {
		return nil, err
	}
	if words.Value > int64(d.s.Remaining()/2) {
		return nil, &rbfmt.Error{
			Kind:   rbfmt.ErrTruncated,
			Offset: d.s.Position(),
			Detail: fmt.Sprintf("bignum wants %d words, have %d bytes", words.Value, d.s.Remaining()),
		}
	}
	mag, err := d.s.ReadBytes(int(words.Value) * 2)
	if err != nil {
		return nil, err
	}
	return &Bignum{Sign: sign, Words: words, Magnitude: mag}, nil
}

func (d *decoder) array(depth int) (*Array, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	a := &Array{Count: n, Elements: make([]*Record, 0, d.capacity(n.Value, 1))}
	for i := int64(0); i < n.Value; i++ {
		rec, err := d.record(depth + 1)
		if err != nil {
			return nil, err
		}
		a.Elements = append(a.Elements, rec)
	}
	return a, nil
}

// pairs reads n key/value pairs.
func (d *decoder) pairs(n int64, depth int) ([]Pair, error) {
	out := make([]Pair, 0, d.capacity(n, 2))
	for i := int64(0); i < n; i++ {
		key, err := d.record(depth + 1)
		if err != nil {
			return nil, err
		}
		value, err := d.record(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: key, Value: value})
	}
	return out, nil
}

func (d *decoder) hash(depth int) (*Hash, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	pairs, err := d.pairs(n.Value, depth)
	if err != nil {
		return nil, err
	}
	return &Hash{Count: n, Pairs: pairs}, nil
}

func (d *decoder) rstruct(depth int) (*Struct, error) {
	name, err := d.record(depth + 1)
	if err != nil {
		return nil, err
	}
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	members, err := d.pairs(n.Value, depth)
	if err != nil {
		return nil, err
	}
	return &Struct{Name: name, Count: n, Members: members}, nil
}

func (d *decoder) ivar(depth int) (*IVar, error) {
	obj, err := d.record(depth + 1)
	if err != nil {
		return nil, err
	}
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	vars, err := d.pairs(n.Value, depth)
	if err != nil {
		return nil, err
	}
	return &IVar{Object: obj, Count: n, Variables: vars}, nil
}
