package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var profile string

	rootCmd := &cobra.Command{
		Use:           "vectoradmin",
		Short:         "Admin console for Chroma-compatible vector databases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "saved connection profile to use instead of CHROMA_URL and AUTH_*")

	rootCmd.AddCommand(
		newServeCmd(&profile),
		newDetectCmd(&profile),
		newCollectionsCmd(&profile),
		newExportCmd(&profile),
		newImportCmd(&profile),
		newMirrorCmd(&profile),
		newVisualizeCmd(&profile),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
