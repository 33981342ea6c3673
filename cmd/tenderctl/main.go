package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tenderly/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
