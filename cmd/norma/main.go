package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ufro-labs/norma-cli/internal/adapters/driving/cli"
)

func main() {
	// Provider credentials may come from a local .env; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
