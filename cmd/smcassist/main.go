package main

import (
	"os"

	"github.com/quantfx/smcassist/cmd/smcassist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
