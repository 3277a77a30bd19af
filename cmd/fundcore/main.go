package main

import (
	"os"

	"github.com/pitquant/fundcore/cmd/fundcore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
