package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/marshaltest"
	"rxmarshal/internal/rbfmt"
)

func decode(t *testing.T, data []byte) *marshal.Document {
	t.Helper()
	doc, err := marshal.Decode(data, rbfmt.Options{})
	require.NoError(t, err)
	return doc
}

func TestBuildRegistersInEncodingOrder(t *testing.T) {
	// [{:id => "a"}, "b", :id, 7]
	data := marshaltest.New().Array(4).
		Hash(1).Symbol("id").String("a").
		String("b").
		Symlink(0).
		Fixnum(7).
		Bytes()
	doc := decode(t, data)
	tbl := Build(doc.Root)

	require.Len(t, tbl.Symbols, 1)
	require.Equal(t, "id", tbl.Symbols[0].Body.(*marshal.Symbol).String())

	require.Len(t, tbl.Objects, 4)
	require.Equal(t, marshal.TagArray, tbl.Objects[0].Tag)
	require.Equal(t, marshal.TagHash, tbl.Objects[1].Tag)
	require.Equal(t, []byte("a"), tbl.Objects[2].Body.(*marshal.String).Bytes)
	require.Equal(t, []byte("b"), tbl.Objects[3].Body.(*marshal.String).Bytes)
}

func TestSymbolLink(t *testing.T) {
	data := marshaltest.New().Array(3).
		Symbol("name").Symbol("id").Symlink(1).
		Bytes()
	doc := decode(t, data)
	tbl := Build(doc.Root)

	link := doc.Root.Body.(*marshal.Array).Elements[2]
	name, err := tbl.SymbolName(link)
	require.NoError(t, err)
	require.Equal(t, "id", name)

	name, err = tbl.SymbolName(doc.Root.Body.(*marshal.Array).Elements[0])
	require.NoError(t, err)
	require.Equal(t, "name", name)
}

func TestSymbolErrors(t *testing.T) {
	data := marshaltest.New().Array(2).Symlink(5).Fixnum(1).Bytes()
	doc := decode(t, data)
	tbl := Build(doc.Root)
	elems := doc.Root.Body.(*marshal.Array).Elements

	_, err := tbl.Symbol(elems[0])
	require.ErrorIs(t, err, ErrDangling)

	_, err = tbl.Symbol(elems[1])
	require.ErrorIs(t, err, ErrNotLink)

	var nilTable *Table
	_, err = nilTable.Symbol(elems[0])
	require.ErrorIs(t, err, ErrDangling)
}

func TestDerefObjectLink(t *testing.T) {
	// s = "shared"; [s, s] dumps as ["shared", @1]
	data := marshaltest.New().Array(2).String("shared").Link(1).Bytes()
	doc := decode(t, data)
	tbl := Build(doc.Root)

	elems := doc.Root.Body.(*marshal.Array).Elements
	target, err := tbl.Deref(elems[1])
	require.NoError(t, err)
	require.Same(t, elems[0], target)

	same, err := tbl.Deref(elems[0])
	require.NoError(t, err)
	require.Same(t, elems[0], same)

	require.NoError(t, tbl.Check(doc.Root))
}

func TestDerefSelfReference(t *testing.T) {
	// a = []; a << a dumps as [@0]
	data := marshaltest.New().Array(1).Link(0).Bytes()
	doc := decode(t, data)
	tbl := Build(doc.Root)

	target, err := tbl.Deref(doc.Root.Body.(*marshal.Array).Elements[0])
	require.NoError(t, err)
	require.Same(t, doc.Root, target)
}

func TestCheckDangling(t *testing.T) {
	data := marshaltest.New().Array(1).Link(9).Bytes()
	doc := decode(t, data)
	require.ErrorIs(t, Build(doc.Root).Check(doc.Root), ErrDangling)
}

func TestIVarWrappedStringRegistersOnce(t *testing.T) {
	// ["x", "x".dup] with UTF-8 ivars; the ivar wrapper itself takes no slot.
	data := marshaltest.New().Array(2).
		UTF8String("x").
		IVar().String("y").Packed(1).Symlink(0).True().
		Bytes()
	doc := decode(t, data)
	tbl := Build(doc.Root)

	require.Len(t, tbl.Symbols, 1)
	require.Len(t, tbl.Objects, 3)
	require.NoError(t, tbl.Check(doc.Root))
}
