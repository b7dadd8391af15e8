package main

import (
	"os"

	"tableflip.dev/kidoers/pkg/commands"
)

func main() {
	// cobra has already printed the error.
	if err := commands.New().Execute(); err != nil {
		os.Exit(1)
	}
}
