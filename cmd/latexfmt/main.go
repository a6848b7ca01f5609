package main

import (
	"os"

	"github.com/eolymp/go-latexfmt/cmd/latexfmt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
