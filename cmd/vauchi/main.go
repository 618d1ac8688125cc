package main

import (
	"os"

	"vauchi/cmd/vauchi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
