package main

import (
	"os"

	"github.com/go-ecma3/ecma3/cmd/ecma3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
