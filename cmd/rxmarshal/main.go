package main

import (
	"fmt"
	"os"

	"github.com/minio/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "rxmarshal"
	app.Usage = "Ruby Marshal 4.8 inspector"
	app.Description = `rxmarshal decodes Ruby Marshal 4.8 files (RPG Maker .rxdata and
similar) and prints, exports or catalogs their contents. Decoding is strict
by default; --relaxed accepts the extension placeholder tags.`
	app.HideVersion = true
	app.Commands = []cli.Command{
		dumpCommand,
		jsonCommand,
		stringsCommand,
		graphCommand,
		getCommand,
		catalogCommand,
	}
	return app
}
