// Command corona runs and archives 1-D stellar corona simulations.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/corona/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "corona: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
