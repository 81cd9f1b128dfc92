package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "bilicache: %v\n", err)
		os.Exit(1)
	}
}
