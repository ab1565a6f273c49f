package main

import (
	"os"

	"github.com/bankledger-dev/bankledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
