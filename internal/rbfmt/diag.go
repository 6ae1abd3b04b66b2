// Package rbfmt provides the byte-level reader, shared options and
// diagnostics for Ruby Marshal decoding.
package rbfmt

import "fmt"

// DiagKind classifies a diagnostic message.
type DiagKind string

const (
	DiagTruncated  DiagKind = "truncated"
	DiagInvalid    DiagKind = "invalid"
	DiagUnknownTag DiagKind = "unknown_tag"
	DiagTrailing   DiagKind = "trailing"
)

// Diag records a non-fatal issue encountered during decoding.
type Diag struct {
	Offset int      `json:"offset"`
	Kind   DiagKind `json:"kind"`
	Msg    string   `json:"msg"`
}

func (d Diag) String() string {
	return fmt.Sprintf("[%s] 0x%x: %s", d.Kind, d.Offset, d.Msg)
}

// Diags accumulates diagnostics.
type Diags struct {
	items []Diag
}

func (d *Diags) Add(offset int, kind DiagKind, msg string) {
	d.items = append(d.items, Diag{Offset: offset, Kind: kind, Msg: msg})
}

func (d *Diags) Addf(offset int, kind DiagKind, format string, args ...any) {
	d.items = append(d.items, Diag{Offset: offset, Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func (d *Diags) Items() []Diag { return d.items }
func (d *Diags) Len() int      { return len(d.items) }

// Mode controls how extension tags are handled.
type Mode int

const (
	ModeStrict  Mode = iota // extension tags are ErrUnsupportedTag
	ModeRelaxed             // extension tags decode as length-prefixed placeholders
)

func (m Mode) String() string {
	if m == ModeRelaxed {
		return "relaxed"
	}
	return "strict"
}

// Options controls decoding behavior. The zero value is strict with
// default limits.
type Options struct {
	Mode        Mode
	MaxDepth    int // nesting cap; 0 = use default
	MaxElements int // per-container count cap; 0 = use default
}

const (
	DefaultMaxDepth    = 512
	DefaultMaxElements = 1 << 24
)

func (o Options) EffectiveMaxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o Options) EffectiveMaxElements() int {
	if o.MaxElements > 0 {
		return o.MaxElements
	}
	return DefaultMaxElements
}
