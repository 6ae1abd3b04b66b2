package marshal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rxmarshal/internal/marshaltest"
)

func TestWalkEncodingOrder(t *testing.T) {
	data := marshaltest.New().Hash(1).
		Symbol("party").
		Array(2).
		Struct("Actor", 1).Symbol("id").Fixnum(1).
		Nil().
		Bytes()
	doc := decodeStrict(t, data)

	var got []Tag
	var depths []int
	err := Walk(doc.Root, func(r *Record, depth int) error {
		got = append(got, r.Tag)
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []Tag{
		TagHash, TagSymbol, TagArray, TagStruct, TagSymbol, TagSymbol, TagFixnum, TagNil,
	}, got)
	require.Equal(t, []int{0, 1, 1, 2, 3, 3, 3, 2}, depths)
}

func TestWalkSkipChildren(t *testing.T) {
	data := marshaltest.New().Array(2).Array(1).Fixnum(1).Fixnum(2).Bytes()
	doc := decodeStrict(t, data)

	var n int
	err := Walk(doc.Root, func(r *Record, depth int) error {
		n++
		if depth == 1 && r.Tag == TagArray {
			return SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestCountTags(t *testing.T) {
	data := marshaltest.New().Array(4).
		Symbol("a").Symlink(0).String("s").Link(1).
		Bytes()
	doc := decodeStrict(t, data)

	st := CountTags(doc.Root)
	require.Equal(t, 5, st.Records)
	require.Equal(t, 1, st.Symbols)
	require.Equal(t, 2, st.Links)
	require.Equal(t, 2, st.Objects) // array + string
	require.Equal(t, 1, st.MaxDepth)
	require.Equal(t, 1, st.ByTag[TagString])

	sorted := st.Sorted()
	require.Len(t, sorted, 5)
	for _, row := range sorted {
		require.Equal(t, 1, row.Count)
	}
}
