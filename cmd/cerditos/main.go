package main

import (
	"os"

	"github.com/cerditos-farm/cerditos/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
