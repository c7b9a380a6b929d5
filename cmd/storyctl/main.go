package main

import (
	"fmt"
	"os"

	"storyhub/internal/cli"
	"storyhub/internal/config"
)

func main() {
	cfg, _ := config.Load()
	if err := cli.NewRootCommand(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
