// Ruby Marshal data stream reader.
// Implements the packed integer encoding used by Marshal format 4.8.
package rbfmt

import (
	"encoding/binary"
	"fmt"
)

// Stream reads Marshal data from an immutable buffer with a forward-only cursor.
type Stream struct {
	data []byte
	pos  int
	end  int
}

// NewStream creates a stream over the given data.
func NewStream(data []byte) *Stream {
	return &Stream{data: data, pos: 0, end: len(data)}
}

// Position returns the current read position.
func (s *Stream) Position() int { return s.pos }

// Remaining returns bytes left to read.
func (s *Stream) Remaining() int { return s.end - s.pos }

func (s *Stream) short(want int) error {
	return &Error{
		Kind:   ErrTruncated,
		Offset: s.pos,
		Detail: fmt.Sprintf("want %d bytes, have %d", want, s.Remaining()),
	}
}

// ReadByte reads a single byte.
func (s *Stream) ReadByte() (byte, error) {
	if s.pos >= s.end {
		return 0, s.short(1)
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

// ReadBytes reads n bytes into a new slice.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, &Error{
			Kind:   ErrMalformedLength,
			Offset: s.pos,
			Detail: fmt.Sprintf("negative length %d", n),
		}
	}
	if n > s.Remaining() {
		return nil, s.short(n)
	}
	out := make([]byte, n)
	copy(out, s.data[s.pos:s.pos+n])
	s.pos += n
	return out, nil
}

// ReadUint16 reads a little-endian uint16.
func (s *Stream) ReadUint16() (uint16, error) {
	if s.Remaining() < 2 {
		return 0, s.short(2)
	}
	v := binary.LittleEndian.Uint16(s.data[s.pos:])
	s.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (s *Stream) ReadUint32() (uint32, error) {
	if s.Remaining() < 4 {
		return 0, s.short(4)
	}
	v := binary.LittleEndian.Uint32(s.data[s.pos:])
	s.pos += 4
	return v, nil
}

// Packed integer code bytes.
const (
	packedZero     = 0x00
	packedPosMax   = 0x04 // codes 1..4: that many little-endian bytes follow
	immediatePosLo = 0x05 // codes 5..127: value = code - 5
	immediatePosHi = 0x7f
	immediateNegLo = 0x80 // codes 128..251: value = int8(code) + 5
	immediateNegHi = 0xfb
	packedNegMin   = 0xfc // codes 252..255: 256-code bytes follow, sign-filled
	immediateShift = 5
)

// PackedInt is one decoded Marshal packed integer.
type PackedInt struct {
	Code  byte   `json:"code"`
	Extra []byte `json:"extra,omitempty"`
	Value int64  `json:"value"`
}

// Immediate reports whether the value is carried in the code byte itself.
func (p PackedInt) Immediate() bool {
	return p.Code > packedPosMax && p.Code < packedNegMin
}

// Width returns the total encoded size in bytes.
func (p PackedInt) Width() int { return 1 + len(p.Extra) }

// ReadPackedInt reads a Marshal packed integer.
//
// Encoding, selected by the first byte c:
//
//	0         value 0
//	1..4      c bytes follow, little-endian, unsigned
//	5..127    value c-5
//	128..251  value int8(c)+5
//	252..255  256-c bytes follow, little-endian, minus 2^(8*(256-c))
//
// On error the position is left where it was before the call.
func (s *Stream) ReadPackedInt() (PackedInt, error) {
	start := s.pos
	c, err := s.ReadByte()
	if err != nil {
		return PackedInt{}, err
	}
	p := PackedInt{Code: c}

	switch {
	case c == packedZero:
		p.Value = 0
	case c <= packedPosMax:
		extra, err := s.ReadBytes(int(c))
		if err != nil {
			s.pos = start
			return PackedInt{}, err
		}
		p.Extra = extra
		p.Value = int64(littleEndian(extra))
	case c >= immediatePosLo && c <= immediatePosHi:
		p.Value = int64(c) - immediateShift
	case c >= immediateNegLo && c <= immediateNegHi:
		p.Value = int64(int8(c)) + immediateShift
	default: // packedNegMin..0xff
		width := 256 - int(c)
		extra, err := s.ReadBytes(width)
		if err != nil {
			s.pos = start
			return PackedInt{}, err
		}
		p.Extra = extra
		p.Value = int64(littleEndian(extra)) - int64(1)<<(8*width)
	}
	return p, nil
}

// ReadLength reads a packed integer that must be a non-negative count.
func (s *Stream) ReadLength() (PackedInt, error) {
	start := s.pos
	p, err := s.ReadPackedInt()
	if err != nil {
		return PackedInt{}, err
	}
	if p.Value < 0 {
		return PackedInt{}, &Error{
			Kind:   ErrMalformedLength,
			Offset: start,
			Detail: fmt.Sprintf("negative count %d", p.Value),
		}
	}
	return p, nil
}

func littleEndian(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// EncodePackedInt returns the canonical encoding of v, the form Ruby itself
// writes. Values outside -2^32..2^32-1 do not fit a packed integer.
func EncodePackedInt(v int64) ([]byte, error) {
	switch {
	case v == 0:
		return []byte{packedZero}, nil
	case v > 0 && v <= immediatePosHi-immediateShift:
		return []byte{byte(v + immediateShift)}, nil
	case v < 0 && v >= -(immediatePosHi+1-immediateShift): // -123..-1
		return []byte{byte(v - immediateShift)}, nil
	}

	if v < -(int64(1)<<32) || v >= int64(1)<<32 {
		return nil, &Error{
			Kind:   ErrMalformedLength,
			Detail: fmt.Sprintf("value %d does not fit a packed integer", v),
		}
	}

	buf := []byte{0}
	for x := v; ; {
		buf = append(buf, byte(x))
		x >>= 8
		if (v > 0 && x == 0) || (v < 0 && x == -1) {
			break
		}
	}
	if n := len(buf) - 1; v > 0 {
		buf[0] = byte(n)
	} else {
		buf[0] = byte(256 - n)
	}
	return buf, nil
}
