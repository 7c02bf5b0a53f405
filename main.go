package main

import (
	"os"

	"github.com/havenly/planmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
