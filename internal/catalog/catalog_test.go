package catalog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/marshaltest"
	"rxmarshal/internal/rbfmt"
)

func summarize(t *testing.T, path string, b *marshaltest.Builder, opts rbfmt.Options) Entry {
	t.Helper()
	data := b.Bytes()
	doc, err := marshal.Decode(data, opts)
	require.NoError(t, err)
	return Summarize(path, data, doc, nil)
}

func TestSummarize(t *testing.T) {
	// {:name => "Aluxes", :hp => 10} followed by one junk byte.
	e := summarize(t, "save.rxdata", marshaltest.New().Hash(2).
		Symbol("name").UTF8String("Aluxes").
		Symbol("hp").Fixnum(10).
		Raw(0xff), rbfmt.Options{})

	require.Equal(t, "save.rxdata", e.Path)
	require.Len(t, e.SHA256, 64)
	require.Equal(t, "4.8", e.Version)
	require.Equal(t, "strict", e.Mode)
	require.Equal(t, "hash", e.RootTag)
	require.Equal(t, 1, e.Trailing)
	require.Equal(t, e.Size-1, e.Consumed)
	require.Equal(t, []string{"name", "E", "hp"}, e.Symbols)
	require.Equal(t, 3, e.SymbolCount)
	require.Equal(t, 2, e.Objects)
	require.Equal(t, 1, e.Diagnostics)
	require.False(t, e.Added.IsZero())
}

func TestSummarizeCapsSymbols(t *testing.T) {
	b := marshaltest.New().Array(MaxSymbols + 5)
	for i := 0; i < MaxSymbols+5; i++ {
		b.Symbol("s" + strings.Repeat("x", i))
	}
	e := summarize(t, "many", b, rbfmt.Options{})
	require.Len(t, e.Symbols, MaxSymbols)
	require.Equal(t, MaxSymbols+5, e.SymbolCount)
}

func TestStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	s, err := Open(dbPath)
	require.NoError(t, err)

	b := summarize(t, "b.rxdata", marshaltest.New().Array(0), rbfmt.Options{})
	a := summarize(t, "a.rxdata", marshaltest.New().Extension('o', []byte("xy")),
		rbfmt.Options{Mode: rbfmt.ModeRelaxed})
	require.NoError(t, s.Put(b))
	require.NoError(t, s.Put(a))

	got, err := s.Get("a.rxdata")
	require.NoError(t, err)
	require.Equal(t, a.SHA256, got.SHA256)
	require.Equal(t, "relaxed", got.Mode)
	require.Equal(t, "ext_object", got.RootTag)
	require.True(t, a.Added.Equal(got.Added))

	_, err = s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a.rxdata", list[0].Path)
	require.Equal(t, "b.rxdata", list[1].Path)
	require.NoError(t, s.Close())

	// Entries survive a reopen, and Put replaces.
	s, err = Open(dbPath)
	require.NoError(t, err)
	defer s.Close()
	b.Records = 99
	require.NoError(t, s.Put(b))
	got, err = s.Get("b.rxdata")
	require.NoError(t, err)
	require.Equal(t, 99, got.Records)
	list, err = s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestPutRequiresPath(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	defer s.Close()
	require.Error(t, s.Put(Entry{}))
}
