// Command qactl administers a campus Q&A store.
package main

import (
	"fmt"
	"os"

	"github.com/jsamuelsen/campus-qa/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
