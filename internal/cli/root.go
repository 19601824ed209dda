package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hksynth",
	Short: "hksynth - Synthetic HealthKit data generator for local development",
	Long: `hksynth generates realistic HealthKit-shaped health datasets
for SDK development, QA and demos.

It streams the HealthKit export JSON layout through a constant-memory
codec, keeps samples in a local store, and can receive or replay
datasets over the network, so development never depends on a physical
device.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("db", "", "Path to the sample store, or \"memory\" (defaults to the user config dir)")
	rootCmd.PersistentFlags().String("profile-dir", "", "Directory with additional profile YAML files")
	bindEnv(rootCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(populateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(wipeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
