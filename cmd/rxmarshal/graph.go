package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/cli"
	"github.com/zboralski/lattice/render"

	"rxmarshal/internal/graph"
	"rxmarshal/internal/output"
)

var graphCommand = cli.Command{
	Name:  "graph",
	Usage: "render the record tree and its links as Graphviz DOT",
	Flags: withDecodeFlags(
		cli.StringFlag{Name: "out", Usage: "output .dot file (default stdout)"},
		cli.IntFlag{Name: "max-nodes", Value: 5000, Usage: "stop adding records after this many (0 = unlimited)"},
	),
	Action: cmdGraph,
}

func cmdGraph(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	in, err := load(ctx, path)
	if err != nil {
		return err
	}

	g := graph.Build(in.doc.Root, in.tbl, ctx.Int("max-nodes"))
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dot := render.DOT(g, title)
	fmt.Fprintf(os.Stderr, "graph: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))

	out := ctx.String("out")
	if out == "" {
		_, err := os.Stdout.WriteString(dot)
		return err
	}
	if err := output.WriteDOT(out, dot); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}
