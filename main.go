package main

import (
	"os"

	"github.com/klazic/trigo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
