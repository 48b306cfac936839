package main

import (
	"os"

	"github.com/go-logo/qlogo/cmd/qlogo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
