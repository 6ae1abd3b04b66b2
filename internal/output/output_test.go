package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/marshaltest"
	"rxmarshal/internal/rbfmt"
	"rxmarshal/internal/resolve"
)

func decode(t *testing.T, b *marshaltest.Builder) (*marshal.Document, *resolve.Table) {
	t.Helper()
	doc, err := marshal.Decode(b.Bytes(), rbfmt.Options{})
	require.NoError(t, err)
	return doc, resolve.Build(doc.Root)
}

func TestTree(t *testing.T) {
	// [ {:name => "Aluxes"}, true, @1, ;0, 2**64, "\xff" ]
	doc, tbl := decode(t, marshaltest.New().Array(6).
		Hash(1).Symbol("name").UTF8String("Aluxes").
		True().
		Link(1).
		Symlink(0).
		Bignum(false, []byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 0}).
		Raw('"', 6, 0xff))

	root := Tree(doc.Root, tbl, nil)
	require.Equal(t, "array", root.Tag)
	require.Len(t, root.Items, 6)

	h := root.Items[0]
	require.Equal(t, "hash", h.Tag)
	require.Len(t, h.Pairs, 1)
	require.Equal(t, "name", h.Pairs[0].Key.Text)
	v := h.Pairs[0].Value
	require.Equal(t, "ivar", v.Tag)
	require.Equal(t, "UTF-8", v.Encoding)
	require.Equal(t, "Aluxes", v.Object.Text)

	require.Equal(t, true, root.Items[1].Value)

	link := root.Items[2]
	require.Equal(t, int64(1), *link.Ref)
	require.Equal(t, h.Offset, *link.Target)

	require.Equal(t, "name", root.Items[3].Text)
	require.Equal(t, "18446744073709551616", root.Items[4].Value)
	require.Equal(t, []byte{0xff}, root.Items[5].Raw)
	require.Empty(t, root.Items[5].Text)
}

func TestTreeDanglingLink(t *testing.T) {
	doc, tbl := decode(t, marshaltest.New().Array(1).Link(9))
	n := Tree(doc.Root, tbl, nil).Items[0]
	require.Equal(t, int64(9), *n.Ref)
	require.Nil(t, n.Target)
}

func TestWriteTreeJSON(t *testing.T) {
	doc, tbl := decode(t, marshaltest.New().Struct("Point", 1).Symbol("x").Fixnum(3).Raw(0))

	var buf bytes.Buffer
	require.NoError(t, WriteTreeJSON(&buf, "", doc, tbl, nil))

	var got struct {
		Version  []int `json:"version"`
		Consumed int   `json:"consumed"`
		Trailing int   `json:"trailing"`
		Root     struct {
			Tag  string `json:"tag"`
			Name struct {
				Text string `json:"text"`
			} `json:"name"`
			Pairs []struct {
				Key   map[string]any `json:"key"`
				Value map[string]any `json:"value"`
			} `json:"pairs"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, []int{4, 8}, got.Version)
	require.Equal(t, 1, got.Trailing)
	require.Equal(t, "struct", got.Root.Tag)
	require.Equal(t, "Point", got.Root.Name.Text)
	require.Len(t, got.Root.Pairs, 1)
	require.Equal(t, "x", got.Root.Pairs[0].Key["text"])
	require.EqualValues(t, 3, got.Root.Pairs[0].Value["value"])
}

func TestWriteTreeJSONFile(t *testing.T) {
	doc, tbl := decode(t, marshaltest.New().Nil())
	path := filepath.Join(t.TempDir(), "out", "tree.json")
	require.NoError(t, WriteTreeJSON(nil, path, doc, tbl, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"tag": "nil"`)
}

func TestWriteStatsJSON(t *testing.T) {
	doc, _ := decode(t, marshaltest.New().Array(3).Nil().Nil().Symbol("a"))
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, WriteStatsJSON(path, marshal.CountTags(doc.Root)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		Records int                `json:"records"`
		Symbols int                `json:"symbols"`
		ByTag   []marshal.TagCount `json:"by_tag"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, 4, got.Records)
	require.Equal(t, 1, got.Symbols)
	require.Equal(t, marshal.TagCount{Tag: "nil", Count: 2}, got.ByTag[0])
}

func TestWriteDOT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g", "tree.dot")
	require.NoError(t, WriteDOT(path, "digraph {}\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "digraph {}\n", string(data))
}

func TestWriteText(t *testing.T) {
	doc, tbl := decode(t, marshaltest.New().Array(2).
		Hash(1).Symbol("a").Fixnum(1).
		String("x"))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, doc.Root, tbl, nil))
	require.Equal(t, ""+
		"000002 array[2]\n"+
		"000004   [0] hash{1}\n"+
		"000009     :a => 1\n"+
		"00000b   [1] \"x\"\n", buf.String())
}

func TestWriteTextIvarObject(t *testing.T) {
	// An ivar around an array shows the object and the variables.
	doc, tbl := decode(t, marshaltest.New().IVar().Array(0).Packed(1).Symbol("@n").Fixnum(2))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, doc.Root, tbl, nil))
	require.Equal(t, ""+
		"000002 array[0] ivars{1}\n"+
		"000003   object array[0]\n"+
		"00000a   :@n => 2\n", buf.String())
}
