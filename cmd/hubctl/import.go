package main

import (
	"github.com/spf13/cobra"

	"github.com/northwind-labs/storefront/internal/importer"
	"github.com/northwind-labs/storefront/internal/logger"
)

var importOpts importer.Options

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import automation assets into the hub",
	Long: `Runs the six hub import steps in order: settings, schemas, types,
content, slots and events. The run halts on the first failing step; steps
that already completed stay applied.`,
	RunE: runImport,
}

func init() {
	flags := importCmd.PersistentFlags()
	flags.StringVar(&importOpts.AutomationDir, "automation-dir", "", "directory holding the exported automation assets (required)")
	flags.StringVar(&importOpts.HubID, "hub-id", "", "target hub id (required)")
	flags.StringVar(&importOpts.ClientID, "client-id", "", "API client id (required)")
	flags.StringVar(&importOpts.ClientSecret, "client-secret", "", "API client secret (required)")
	flags.StringVar(&importOpts.ContentRepoID, "content-repo-id", "", "repository id for content items (required)")
	flags.StringVar(&importOpts.SlotsRepoID, "slots-repo-id", "", "repository id for slot items (required)")
	flags.StringVar(&importOpts.CLI, "cli", importer.DefaultCLI, "vendor CLI binary")
	flags.BoolVar(&importOpts.Verbose, "verbose", false, "echo vendor CLI command lines")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	level := "info"
	if importOpts.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "console", Output: "stderr"})
	defer func() { _ = log.Sync() }()

	imp, err := importer.New(importOpts, log)
	if err != nil {
		return err
	}
	return imp.Run(cmd.Context())
}
