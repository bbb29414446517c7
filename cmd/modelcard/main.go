// Command modelcard imports model card spreadsheets and stores completed cards.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/cardops/modelcard/internal/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(cli.ExitPanic)
		}
	}()

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
