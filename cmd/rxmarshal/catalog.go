package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/minio/cli"

	"rxmarshal/internal/catalog"
	"rxmarshal/internal/output"
)

var dbFlag = cli.StringFlag{
	Name:  "db",
	Value: "rxmarshal.db",
	Usage: "catalog database path",
}

var catalogCommand = cli.Command{
	Name:  "catalog",
	Usage: "record file summaries in a local database",
	Subcommands: []cli.Command{
		{
			Name:   "add",
			Usage:  "decode files and store their summaries",
			Flags:  withDecodeFlags(dbFlag),
			Action: cmdCatalogAdd,
		},
		{
			Name:   "list",
			Usage:  "list cataloged files",
			Flags:  []cli.Flag{dbFlag},
			Action: cmdCatalogList,
		},
		{
			Name:   "show",
			Usage:  "print the stored summary of one file as JSON",
			Flags:  []cli.Flag{dbFlag},
			Action: cmdCatalogShow,
		},
	},
}

func cmdCatalogAdd(ctx *cli.Context) error {
	if len(ctx.Args()) == 0 {
		return fmt.Errorf("catalog add: at least one file is required")
	}
	store, err := catalog.Open(ctx.String("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	var failed int
	for _, arg := range ctx.Args() {
		path, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		in, err := load(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", arg, err)
			failed++
			continue
		}
		e := catalog.Summarize(path, in.data, in.doc, in.tbl)
		if err := store.Put(e); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "added %s (%d records, root %s)\n", path, e.Records, e.RootTag)
	}
	if failed > 0 {
		return fmt.Errorf("catalog add: %d of %d files failed to decode", failed, len(ctx.Args()))
	}
	return nil
}

func cmdCatalogList(ctx *cli.Context) error {
	store, err := catalog.Open(ctx.String("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSIZE\tROOT\tRECORDS\tSYMBOLS\tDIAGS\tSHA256")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%d\t%.12s\n",
			e.Path, e.Size, e.RootTag, e.Records, e.SymbolCount, e.Diagnostics, e.SHA256)
	}
	return tw.Flush()
}

func cmdCatalogShow(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		return fmt.Errorf("catalog show: file argument is required")
	}
	path, err := filepath.Abs(arg)
	if err != nil {
		return err
	}
	store, err := catalog.Open(ctx.String("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Get(path)
	if err != nil {
		return err
	}
	return output.EncodeJSON(os.Stdout, e)
}
