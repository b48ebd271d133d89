// Command randrctl is the companion CLI for randrd: it validates
// configuration files, inspects connected outputs, and generates the
// monitor identity snippets the daemon's config is built from.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
