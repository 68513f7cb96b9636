package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/psantana5/ceres-scripts/cmd/ceres/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "ceres: %v\n", err)
		os.Exit(1)
	}
}
