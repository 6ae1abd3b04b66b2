package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rxmarshal/internal/catalog"
	"rxmarshal/internal/interp"
	"rxmarshal/internal/marshaltest"
	"rxmarshal/internal/rbfmt"
)

func run(args ...string) error {
	return newApp().Run(append([]string{"rxmarshal"}, args...))
}

func writeFixture(t *testing.T, name string, b *marshaltest.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0644))
	return path
}

func actorsFixture(t *testing.T) string {
	// [ {:name => "Aluxes", :level => 3}, @1 ]
	return writeFixture(t, "actors.rxdata", marshaltest.New().Array(2).
		Hash(2).
		Symbol("name").UTF8String("Aluxes").
		Symbol("level").Fixnum(3).
		Link(1))
}

func TestJSONCommand(t *testing.T) {
	in := actorsFixture(t)
	out := filepath.Join(t.TempDir(), "actors.json")
	stats := filepath.Join(t.TempDir(), "stats.json")

	require.NoError(t, run("json", "--out", out, "--stats", stats, in))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `"text": "Aluxes"`)
	require.Contains(t, string(data), `"encoding": "UTF-8"`)

	data, err = os.ReadFile(stats)
	require.NoError(t, err)
	require.Contains(t, string(data), `"by_tag"`)
}

func TestGraphCommand(t *testing.T) {
	in := actorsFixture(t)
	out := filepath.Join(t.TempDir(), "dot", "actors.dot")
	require.NoError(t, run("graph", "--out", out, in))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestStrictAndRelaxed(t *testing.T) {
	in := writeFixture(t, "ext.bin", marshaltest.New().Extension('~', []byte{1, 2}))

	err := run("dump", in)
	require.ErrorIs(t, err, rbfmt.ErrUnsupportedTag)

	require.NoError(t, run("dump", "--relaxed", in))
}

func TestDepthFlag(t *testing.T) {
	in := writeFixture(t, "deep.bin", marshaltest.New().NestedArrays(10))
	require.ErrorIs(t, run("dump", "--max-depth", "4", in), rbfmt.ErrDepthExceeded)
	require.NoError(t, run("dump", in))
}

func TestGetCommand(t *testing.T) {
	in := actorsFixture(t)
	require.NoError(t, run("get", in, "0.name"))
	require.NoError(t, run("get", "--json", in, "1.level"))
	require.ErrorIs(t, run("get", in, "0.missing"), interp.ErrNotFound)
}

func TestCharsetFlag(t *testing.T) {
	in := actorsFixture(t)
	require.NoError(t, run("strings", "--charset", "Shift_JIS", in))
	require.ErrorIs(t, run("strings", "--charset", "klingon", in), interp.ErrCharset)
}

func TestMissingFileArgument(t *testing.T) {
	require.Error(t, run("dump"))
	require.Error(t, run("catalog", "show"))
}

func TestCatalogCommands(t *testing.T) {
	in := actorsFixture(t)
	bad := writeFixture(t, "bad.bin", marshaltest.Bare().Raw(4, 9, '0'))
	db := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, run("catalog", "add", "--db", db, in))
	require.Error(t, run("catalog", "add", "--db", db, bad))
	require.NoError(t, run("catalog", "list", "--db", db))
	require.NoError(t, run("catalog", "show", "--db", db, in))

	store, err := catalog.Open(db)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "array", entries[0].RootTag)
	require.Equal(t, []string{"name", "E", "level"}, entries[0].Symbols)
}
