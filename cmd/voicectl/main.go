// voicectl is a small operator CLI for a running voiced instance.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	apiKey    string
)

func main() {
	root := &cobra.Command{
		Use:           "voicectl",
		Short:         "Control a running voiced instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server",
		envOr("VOICED_SERVER", "http://127.0.0.1:8001"), "voiced base URL")
	root.PersistentFlags().StringVar(&apiKey, "api-key",
		os.Getenv("VOICED_API_KEY"), "API key")

	root.AddCommand(speakCmd(), transcribeCmd(), voicesCmd(), healthCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
