package main

import (
	"os"

	"github.com/qplang/qpl/cmd/qplctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
