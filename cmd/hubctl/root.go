package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "Provision the CMS hub behind the storefront",
	Long: `hubctl drives the vendor CMS CLI to provision a hub with the
storefront's settings, schemas, types, content, slots and events.`,
	SilenceUsage: true,
}
