package interp

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

// maxDescribe caps quoted string output in Describe.
const maxDescribe = 80

// Describe renders r on one line for listings. Containers show their size,
// not their contents.
func Describe(r *marshal.Record, tbl *resolve.Table, fallback encoding.Encoding) string {
	switch b := r.Body.(type) {
	case nil:
		if r.IsNil() {
			return "nil"
		}
		if v, ok := r.Bool(); ok {
			return strconv.FormatBool(v)
		}
		return r.Tag.String()

	case *marshal.Int:
		switch r.Tag {
		case marshal.TagSymlink:
			name, err := tbl.SymbolName(r)
			if err != nil {
				return fmt.Sprintf(";%d", b.Value)
			}
			return fmt.Sprintf(";%d -> :%s", b.Value, name)
		case marshal.TagLink:
			target, err := tbl.Deref(r)
			if err != nil {
				return fmt.Sprintf("@%d", b.Value)
			}
			return fmt.Sprintf("@%d -> %s@0x%x", b.Value, target.Tag, target.Offset)
		}
		return strconv.FormatInt(b.Value, 10)

	case *marshal.Bignum:
		return BigInt(b).String() + " (bignum)"

	case *marshal.String:
		s, err := Text(r, tbl, fallback)
		if err != nil {
			return fmt.Sprintf("string<%d bytes>", len(b.Bytes))
		}
		return quote(s)

	case *marshal.Symbol:
		return ":" + b.String()

	case *marshal.Array:
		return fmt.Sprintf("array[%d]", len(b.Elements))

	case *marshal.Hash:
		return fmt.Sprintf("hash{%d}", len(b.Pairs))

	case *marshal.Struct:
		return fmt.Sprintf("struct %s{%d}", Key(b.Name, tbl), len(b.Members))

	case *marshal.IVar:
		if _, ok := b.Object.Body.(*marshal.String); ok {
			if s, err := Text(r, tbl, fallback); err == nil {
				if enc := StringEncoding(r, tbl); enc != "" {
					return quote(s) + " (" + enc + ")"
				}
				return quote(s)
			}
		}
		return fmt.Sprintf("%s ivars{%d}", Describe(b.Object, tbl, fallback), len(b.Variables))

	case *marshal.Unknown:
		return fmt.Sprintf("%s<%d bytes>", r.Tag, len(b.Bytes))
	}
	return r.Tag.String()
}

func quote(s string) string {
	if len(s) > maxDescribe {
		cut := maxDescribe
		for cut > 0 && !isRuneStart(s[cut]) {
			cut--
		}
		return strconv.Quote(s[:cut]) + "..."
	}
	return strconv.Quote(s)
}

func isRuneStart(b byte) bool { return b&0xc0 != 0x80 }

// Symbols returns every symbol name in table order.
func Symbols(tbl *resolve.Table) []string {
	out := make([]string, 0, len(tbl.Symbols))
	for _, r := range tbl.Symbols {
		out = append(out, r.Body.(*marshal.Symbol).String())
	}
	return out
}

// Strings returns the text of every string under root in encoding order.
// Ivar-wrapped strings use their recorded encoding; the ivar values
// themselves are not listed. Strings that fail to decode are rendered from
// their raw bytes.
func Strings(root *marshal.Record, tbl *resolve.Table, fallback encoding.Encoding) []string {
	var out []string
	marshal.Walk(root, func(r *marshal.Record, _ int) error {
		var raw []byte
		switch b := r.Body.(type) {
		case *marshal.String:
			raw = b.Bytes
		case *marshal.IVar:
			s, ok := b.Object.Body.(*marshal.String)
			if !ok {
				return nil
			}
			raw = s.Bytes
		default:
			return nil
		}
		text, err := Text(r, tbl, fallback)
		if err != nil {
			text = strings.ToValidUTF8(string(raw), "\ufffd")
		}
		out = append(out, text)
		if r.Tag == marshal.TagIVar {
			return marshal.SkipChildren
		}
		return nil
	})
	return out
}
