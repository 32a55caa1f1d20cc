// Package main provides the entry point for the CV Studio server and tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvstudio",
	Short: "CV Studio HTTP API server",
	Long:  "CV Studio serves the conversational CV builder, LaTeX export, QR payload encoding, EUR exchange rates and the personal finance dashboard over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
