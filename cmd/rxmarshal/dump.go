package main

import (
	"fmt"
	"os"

	"github.com/minio/cli"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/output"
)

var dumpCommand = cli.Command{
	Name:   "dump",
	Usage:  "print the record tree of a file",
	Flags:  withDecodeFlags(cli.BoolFlag{Name: "stats", Usage: "print per-tag record counts after the tree"}),
	Action: cmdDump,
}

func cmdDump(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	in, err := load(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s: Marshal %d.%d, %d bytes, root %s\n",
		path, in.doc.Version[0], in.doc.Version[1], len(in.data), in.doc.Root.Tag)

	if err := output.WriteText(os.Stdout, in.doc.Root, in.tbl, in.fallback); err != nil {
		return err
	}

	if ctx.Bool("stats") {
		st := marshal.CountTags(in.doc.Root)
		fmt.Printf("\nrecords=%d max_depth=%d objects=%d symbols=%d links=%d\n",
			st.Records, st.MaxDepth, st.Objects, st.Symbols, st.Links)
		for _, tc := range st.Sorted() {
			fmt.Printf("  %-12s %d\n", tc.Tag, tc.Count)
		}
	}
	return nil
}
