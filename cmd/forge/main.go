package main

import (
	"fmt"
	"os"

	"github.com/andywolf/forge/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; FORGE_* values may come from the shell.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
