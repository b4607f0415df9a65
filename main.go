package main

import (
	"os"

	"github.com/abhisek/trailhead/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
