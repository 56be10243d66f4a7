package main

import (
	"fmt"
	"os"

	"hogwarts-artifacts/internal/app/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
