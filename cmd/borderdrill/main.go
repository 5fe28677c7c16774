package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "borderdrill",
		Short:   "Border interview training against an AI-played traveler",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newDrillCmd(),
		newPersonasCmd(),
		newCacheCmd(),
		newStatsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
