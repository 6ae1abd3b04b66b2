package marshal

import "rxmarshal/internal/rbfmt"

// Record is one decoded value: a tag plus its payload.
//
// Body is nil for nil, true and false, and for extension tags that carry no
// payload. Symbol and object links carry an *Int holding the table index;
// resolving it is left to the caller (see package resolve).
type Record struct {
	Tag    Tag
	Offset int // offset of the tag byte
	Body   Body
}

// Body is the payload of a Record. The set of implementations is closed.
type Body interface {
	isBody()
}

// Int is a packed integer payload: a fixnum value or a link index.
type Int struct {
	rbfmt.PackedInt
}

// Bignum is an arbitrary-precision integer. Magnitude holds 2*Words.Value
// bytes of little-endian base-256 digits; value reconstruction is done by
// the caller (interp.BigInt).
type Bignum struct {
	Sign      byte // '+' or '-'
	Words     rbfmt.PackedInt
	Magnitude []byte
}

// Negative reports whether the sign byte is '-'.
func (b *Bignum) Negative() bool { return b.Sign == '-' }

// Array is an ordered sequence of records.
type Array struct {
	Count    rbfmt.PackedInt
	Elements []*Record
}

// Pair is a key/value binding inside a hash, struct or ivar wrapper.
type Pair struct {
	Key   *Record
	Value *Record
}

// Hash holds pairs in encoding order. Duplicate keys are kept.
type Hash struct {
	Count rbfmt.PackedInt
	Pairs []Pair
}

// Struct is a named record with member pairs. Name is usually a symbol or
// symlink but is decoded as whatever record is present.
type Struct struct {
	Name    *Record
	Count   rbfmt.PackedInt
	Members []Pair
}

// IVar wraps an object with instance-variable bindings.
type IVar struct {
	Object    *Record
	Count     rbfmt.PackedInt
	Variables []Pair
}

// String holds raw string bytes; the encoding is not interpreted here.
type String struct {
	Len   rbfmt.PackedInt
	Bytes []byte
}

// Symbol is an interned identifier.
type Symbol struct {
	Len  rbfmt.PackedInt
	Name []byte
}

func (s *Symbol) String() string { return string(s.Name) }

// Unknown is the length-prefixed placeholder produced for extension tags
// in relaxed mode.
type Unknown struct {
	Len   rbfmt.PackedInt
	Bytes []byte
}

func (*Int) isBody()     {}
func (*Bignum) isBody()  {}
func (*Array) isBody()   {}
func (*Hash) isBody()    {}
func (*Struct) isBody()  {}
func (*IVar) isBody()    {}
func (*String) isBody()  {}
func (*Symbol) isBody()  {}
func (*Unknown) isBody() {}

// IsNil reports whether r is a nil record.
func (r *Record) IsNil() bool {
	return r.Tag == TagNil || r.Tag == TagNilLegacy
}

// Bool returns the boolean value of a true/false record.
func (r *Record) Bool() (value, ok bool) {
	switch r.Tag {
	case TagTrue:
		return true, true
	case TagFalse:
		return false, true
	}
	return false, false
}

// Fixnum returns the value of a fixnum record.
func (r *Record) Fixnum() (int64, bool) {
	if r.Tag != TagFixnum {
		return 0, false
	}
	return r.Body.(*Int).Value, true
}

// LinkIndex returns the table index of a symlink or object link.
func (r *Record) LinkIndex() (int64, bool) {
	if r.Tag != TagSymlink && r.Tag != TagLink {
		return 0, false
	}
	return r.Body.(*Int).Value, true
}

// Children returns the directly nested records in encoding order.
func (r *Record) Children() []*Record {
	switch b := r.Body.(type) {
	case *Array:
		return b.Elements
	case *Hash:
		return flattenPairs(nil, b.Pairs)
	case *Struct:
		return flattenPairs([]*Record{b.Name}, b.Members)
	case *IVar:
		return flattenPairs([]*Record{b.Object}, b.Variables)
	}
	return nil
}

func flattenPairs(out []*Record, pairs []Pair) []*Record {
	for _, p := range pairs {
		out = append(out, p.Key, p.Value)
	}
	return out
}
