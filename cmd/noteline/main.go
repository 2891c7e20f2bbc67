package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "noteline",
	Short: "AI chat service for notes",
	Long: `noteline serves an authenticated AI chat API backed by per-user
provider configuration, with a read-only admin surface for staff.`,
}

func main() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chatCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
