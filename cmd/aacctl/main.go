package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aditya6114/aac-board/cmd/aacctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "aacctl",
		Short: "Administration tool for the AAC board service",
		Long:  "CLI tool for inspecting and managing the board's persisted state",
	}

	rootCmd.AddCommand(commands.NewStateCmd())
	rootCmd.AddCommand(commands.NewProfilesCmd())
	rootCmd.AddCommand(commands.NewSpeakCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
