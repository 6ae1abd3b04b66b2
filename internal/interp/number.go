package interp

import (
	"fmt"
	"math/big"
	"strconv"

	"golang.org/x/exp/constraints"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

// BigInt reconstructs the value of a bignum from its sign and
// little-endian magnitude.
func BigInt(b *marshal.Bignum) *big.Int {
	be := make([]byte, len(b.Magnitude))
	for i, c := range b.Magnitude {
		be[len(be)-1-i] = c
	}
	v := new(big.Int).SetBytes(be)
	if b.Negative() {
		v.Neg(v)
	}
	return v
}

// Value returns the integer value of a fixnum or bignum record, following
// object links.
func Value(r *marshal.Record, tbl *resolve.Table) (*big.Int, error) {
	r, err := tbl.Deref(r)
	if err != nil {
		return nil, err
	}
	switch b := r.Body.(type) {
	case *marshal.Int:
		if r.Tag == marshal.TagFixnum {
			return big.NewInt(b.Value), nil
		}
	case *marshal.Bignum:
		return BigInt(b), nil
	}
	return nil, fmt.Errorf("%w: %s at 0x%x", ErrNotInteger, r.Tag, r.Offset)
}

// Integer returns the value of a fixnum or bignum record as T. Values that
// do not fit T fail with strconv.ErrRange.
func Integer[T constraints.Integer](r *marshal.Record, tbl *resolve.Table) (T, error) {
	var zero T
	v, err := Value(r, tbl)
	if err != nil {
		return zero, err
	}

	switch {
	case v.IsInt64():
		x := v.Int64()
		t := T(x)
		if int64(t) == x && (t < 0) == (x < 0) {
			return t, nil
		}
	case v.IsUint64():
		u := v.Uint64()
		t := T(u)
		if uint64(t) == u && t >= 0 {
			return t, nil
		}
	}
	return zero, fmt.Errorf("interp: %s out of range for %T: %w", v, zero, strconv.ErrRange)
}
