package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tinyserve/internal/errors"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, exitMessage(err))
		os.Exit(1)
	}
}

// exitMessage renders err for stderr. Startup configuration errors are shown
// as is; anything that happens after that is reported as an application error.
func exitMessage(err error) string {
	if errors.IsConfigError(errors.CodeOf(err)) {
		return oneLine(err)
	}
	return "Application error: " + oneLine(err)
}

// oneLine flattens multi-line error text (e.g. YAML type errors).
func oneLine(err error) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, "; ")
}
