package main

import (
	"os"

	"github.com/abtkit/abt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
