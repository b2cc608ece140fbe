package main

import (
	"errors"
	"fmt"
	"os"

	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps run errors onto the exit contract: 2 for invalid input or
// an unparsable policy, 1 for everything else.
func exitCodeFor(err error) int {
	var parseErr *shiperrors.ParseError
	var inputErr *shiperrors.InputError
	if errors.As(err, &parseErr) || errors.As(err, &inputErr) {
		return 2
	}
	return 1
}
