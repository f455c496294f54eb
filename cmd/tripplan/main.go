package main

import (
	"os"

	"github.com/gyaneshwarpardhi/tripplanner/cmd/tripplan/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
