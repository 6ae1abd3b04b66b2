package main

import (
	"fmt"
	"os"

	"github.com/minio/cli"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/output"
)

var jsonCommand = cli.Command{
	Name:  "json",
	Usage: "export a file as a JSON record tree",
	Flags: withDecodeFlags(
		cli.StringFlag{Name: "out", Usage: "output file (default stdout)"},
		cli.StringFlag{Name: "stats", Usage: "also write tag statistics to this file"},
	),
	Action: cmdJSON,
}

func cmdJSON(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	in, err := load(ctx, path)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if err := output.WriteTreeJSON(os.Stdout, out, in.doc, in.tbl, in.fallback); err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	}

	if statsPath := ctx.String("stats"); statsPath != "" {
		if err := output.WriteStatsJSON(statsPath, marshal.CountTags(in.doc.Root)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", statsPath)
	}
	return nil
}
