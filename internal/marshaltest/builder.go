// Package marshaltest builds Marshal 4.8 byte streams for tests.
package marshaltest

import "rxmarshal/internal/rbfmt"

// Builder appends Marshal-encoded fragments. Each method writes exactly the
// bytes it names; callers are responsible for emitting the right number of
// children after a container header.
type Builder struct {
	buf []byte
}

// New returns a builder that already holds the 4.8 header.
func New() *Builder {
	return &Builder{buf: []byte{4, 8}}
}

// Bare returns a builder with no header.
func Bare() *Builder {
	return &Builder{}
}

// Bytes returns the accumulated stream.
func (b *Builder) Bytes() []byte {
	return append([]byte(nil), b.buf...)
}

// Raw appends bytes verbatim.
func (b *Builder) Raw(p ...byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// Packed appends the canonical packed encoding of v.
func (b *Builder) Packed(v int64) *Builder {
	enc, err := rbfmt.EncodePackedInt(v)
	if err != nil {
		panic(err)
	}
	return b.Raw(enc...)
}

func (b *Builder) Nil() *Builder   { return b.Raw('0') }
func (b *Builder) True() *Builder  { return b.Raw('T') }
func (b *Builder) False() *Builder { return b.Raw('F') }

// Fixnum appends an 'i' record.
func (b *Builder) Fixnum(v int64) *Builder {
	return b.Raw('i').Packed(v)
}

// String appends a '"' record without encoding ivars.
func (b *Builder) String(s string) *Builder {
	return b.Raw('"').Packed(int64(len(s))).Raw([]byte(s)...)
}

// UTF8String appends a string wrapped in an ivar carrying :E => true, the
// form Ruby 1.9+ writes for UTF-8 strings.
func (b *Builder) UTF8String(s string) *Builder {
	return b.IVar().String(s).Packed(1).Symbol("E").True()
}

// Symbol appends a ':' record.
func (b *Builder) Symbol(name string) *Builder {
	return b.Raw(':').Packed(int64(len(name))).Raw([]byte(name)...)
}

// Symlink appends a ';' record.
func (b *Builder) Symlink(idx int64) *Builder {
	return b.Raw(';').Packed(idx)
}

// Link appends an '@' record.
func (b *Builder) Link(idx int64) *Builder {
	return b.Raw('@').Packed(idx)
}

// Array appends an array header; n records must follow.
func (b *Builder) Array(n int64) *Builder {
	return b.Raw('[').Packed(n)
}

// Hash appends a hash header; n key/value record pairs must follow.
func (b *Builder) Hash(n int64) *Builder {
	return b.Raw('{').Packed(n)
}

// Struct appends a struct header with a symbol name; n member pairs must
// follow.
func (b *Builder) Struct(name string, n int64) *Builder {
	return b.Raw('S').Symbol(name).Packed(n)
}

// IVar appends the 'I' tag; the wrapped record, a count and the pairs must
// follow.
func (b *Builder) IVar() *Builder {
	return b.Raw('I')
}

// Bignum appends an 'l' record. mag is the little-endian magnitude and is
// padded to an even length.
func (b *Builder) Bignum(negative bool, mag []byte) *Builder {
	if len(mag)%2 == 1 {
		mag = append(append([]byte(nil), mag...), 0)
	}
	sign := byte('+')
	if negative {
		sign = '-'
	}
	return b.Raw('l', sign).Packed(int64(len(mag) / 2)).Raw(mag...)
}

// Extension appends one of the placeholder tags with a length-prefixed
// payload.
func (b *Builder) Extension(tag byte, payload []byte) *Builder {
	return b.Raw(tag).Packed(int64(len(payload))).Raw(payload...)
}

// NestedArrays appends depth single-element arrays around a nil.
func (b *Builder) NestedArrays(depth int) *Builder {
	for i := 0; i < depth; i++ {
		b.Array(1)
	}
	return b.Nil()
}
