// Package interp turns decoded Marshal records into Go values: text,
// integers, ordered hash views and key-path lookups.
//
// Nothing here is needed to decode a document. These are the caller-side
// steps that decide which character set a string uses or which symbol
// means what.
package interp

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

var (
	ErrNotText    = errors.New("interp: record is not text")
	ErrNotInteger = errors.New("interp: record is not an integer")
	ErrCharset    = errors.New("interp: unknown charset")
)

// Charset returns the encoding for a Ruby or WHATWG encoding name. A nil
// encoding means the bytes are used as-is.
func Charset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "binary", "ascii-8bit", "raw":
		return nil, nil
	case "utf-8", "utf8", "us-ascii", "ascii":
		return unicode.UTF8, nil
	case "iso-8859-1", "latin1", "iso8859-1":
		// WHATWG maps these labels to windows-1252; Ruby means true Latin-1.
		return charmap.ISO8859_1, nil
	case "ibm437", "cp437":
		return charmap.CodePage437, nil
	case "shift_jis", "sjis", "windows-31j", "cp932":
		return japanese.ShiftJIS, nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrCharset, name)
	}
	return enc, nil
}

// Text returns the text of a string, symbol, symlink or ivar-wrapped string,
// following object links. For strings the encoding comes from the :E or
// :encoding instance variables when present, else from fallback.
func Text(r *marshal.Record, tbl *resolve.Table, fallback encoding.Encoding) (string, error) {
	r, err := tbl.Deref(r)
	if err != nil {
		return "", err
	}
	switch b := r.Body.(type) {
	case *marshal.Symbol:
		return b.String(), nil
	case *marshal.Int:
		if r.Tag == marshal.TagSymlink {
			return tbl.SymbolName(r)
		}
	case *marshal.String:
		return decodeWith(b.Bytes, fallback)
	case *marshal.IVar:
		obj, err := tbl.Deref(b.Object)
		if err != nil {
			return "", err
		}
		s, ok := obj.Body.(*marshal.String)
		if !ok {
			break
		}
		enc, found, err := ivarEncoding(b, tbl)
		if err != nil {
			return "", err
		}
		if !found {
			enc = fallback
		}
		return decodeWith(s.Bytes, enc)
	}
	return "", fmt.Errorf("%w: %s at 0x%x", ErrNotText, r.Tag, r.Offset)
}

// StringEncoding reports the encoding name recorded on an ivar-wrapped
// string: "UTF-8" or "US-ASCII" for :E, the :encoding value otherwise, or
// "" when none is recorded.
func StringEncoding(r *marshal.Record, tbl *resolve.Table) string {
	iv, ok := r.Body.(*marshal.IVar)
	if !ok {
		return ""
	}
	return encodingName(iv, tbl)
}

func encodingName(iv *marshal.IVar, tbl *resolve.Table) string {
	for _, p := range iv.Variables {
		name, err := tbl.SymbolName(p.Key)
		if err != nil {
			continue
		}
		switch name {
		case "E":
			if v, ok := p.Value.Bool(); ok && v {
				return "UTF-8"
			}
			return "US-ASCII"
		case "encoding":
			if s, err := rawString(p.Value, tbl); err == nil {
				return s
			}
		}
	}
	return ""
}

func ivarEncoding(iv *marshal.IVar, tbl *resolve.Table) (encoding.Encoding, bool, error) {
	name := encodingName(iv, tbl)
	if name == "" {
		return nil, false, nil
	}
	enc, err := Charset(name)
	if err != nil {
		return nil, false, err
	}
	return enc, true, nil
}

func rawString(r *marshal.Record, tbl *resolve.Table) (string, error) {
	r, err := tbl.Deref(r)
	if err != nil {
		return "", err
	}
	if s, ok := r.Body.(*marshal.String); ok {
		return string(s.Bytes), nil
	}
	return "", ErrNotText
}

func decodeWith(b []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(b), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("interp: decode text: %w", err)
	}
	return string(out), nil
}
