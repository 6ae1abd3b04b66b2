package main

import (
	"fmt"
	"strconv"

	"github.com/minio/cli"

	"rxmarshal/internal/interp"
)

var stringsCommand = cli.Command{
	Name:  "strings",
	Usage: "list the symbols and strings of a file",
	Flags: withDecodeFlags(
		cli.BoolFlag{Name: "symbols", Usage: "list symbols only"},
		cli.IntFlag{Name: "max-len", Value: 200, Usage: "max display length per string (0 = unlimited)"},
	),
	Action: cmdStrings,
}

func cmdStrings(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	in, err := load(ctx, path)
	if err != nil {
		return err
	}

	for i, name := range interp.Symbols(in.tbl) {
		fmt.Printf("sym %4d :%s\n", i, name)
	}
	if ctx.Bool("symbols") {
		return nil
	}

	maxLen := ctx.Int("max-len")
	for i, s := range interp.Strings(in.doc.Root, in.tbl, in.fallback) {
		if maxLen > 0 && len([]rune(s)) > maxLen {
			s = string([]rune(s)[:maxLen]) + "..."
		}
		fmt.Printf("str %4d %s\n", i, strconv.Quote(s))
	}
	return nil
}
