package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/racetrack-labs/paddock/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)

		os.Exit(1)
	}
}
