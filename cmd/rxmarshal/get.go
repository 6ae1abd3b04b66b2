package main

import (
	"fmt"
	"os"

	"github.com/minio/cli"

	"rxmarshal/internal/interp"
	"rxmarshal/internal/output"
)

var getCommand = cli.Command{
	Name:  "get",
	Usage: "print the record at a dotted key path, e.g. get save.rxdata party.0.name",
	Flags: withDecodeFlags(
		cli.BoolFlag{Name: "json", Usage: "print the record as a JSON tree"},
	),
	Action: cmdGet,
}

func cmdGet(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	keyPath := ctx.Args().Get(1)

	in, err := load(ctx, path)
	if err != nil {
		return err
	}

	rec, err := interp.Lookup(in.doc.Root, in.tbl, interp.ParsePath(keyPath))
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return output.EncodeJSON(os.Stdout, output.Tree(rec, in.tbl, in.fallback))
	}
	fmt.Println(interp.Describe(rec, in.tbl, in.fallback))
	return nil
}
