package main

import (
	"fmt"
	"os"

	"github.com/minio/cli"
	"golang.org/x/text/encoding"

	"rxmarshal/internal/interp"
	"rxmarshal/internal/marshal"
	"rxmarshal/internal/rbfmt"
	"rxmarshal/internal/resolve"
)

// decodeFlags are accepted by every command that decodes a file.
var decodeFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "relaxed",
		Usage: "accept extension placeholder tags instead of failing",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Value: rbfmt.DefaultMaxDepth,
		Usage: "maximum nesting depth",
	},
	cli.IntFlag{
		Name:  "max-elements",
		Value: rbfmt.DefaultMaxElements,
		Usage: "maximum element count of a single container",
	},
	cli.StringFlag{
		Name:  "charset",
		Usage: "encoding for strings without an encoding ivar (e.g. Shift_JIS)",
	},
}

func withDecodeFlags(flags ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag(nil), decodeFlags...), flags...)
}

// loaded is one decoded input file.
type loaded struct {
	path     string
	data     []byte
	doc      *marshal.Document
	tbl      *resolve.Table
	fallback encoding.Encoding
}

func decodeOptions(ctx *cli.Context) rbfmt.Options {
	opts := rbfmt.Options{
		MaxDepth:    ctx.Int("max-depth"),
		MaxElements: ctx.Int("max-elements"),
	}
	if ctx.Bool("relaxed") {
		opts.Mode = rbfmt.ModeRelaxed
	}
	return opts
}

func load(ctx *cli.Context, path string) (*loaded, error) {
	fallback, err := interp.Charset(ctx.String("charset"))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	doc, err := marshal.Decode(data, decodeOptions(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, d := range doc.Diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, d)
	}
	return &loaded{
		path:     path,
		data:     data,
		doc:      doc,
		tbl:      resolve.Build(doc.Root),
		fallback: fallback,
	}, nil
}

// fileArg returns the first positional argument or a usage error.
func fileArg(ctx *cli.Context) (string, error) {
	path := ctx.Args().First()
	if path == "" {
		return "", fmt.Errorf("%s: file argument is required", ctx.Command.Name)
	}
	return path, nil
}
