package main

import (
	"os"

	"github.com/beatforge/fieldgate/cmd/fieldgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
