package main

import (
	"os"

	"github.com/mraz2766/photobuild/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
