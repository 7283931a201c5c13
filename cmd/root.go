package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "wellpull",
	Short: "Pulling rig assignment from weekly well intervention plans",
	Long: `Wellpull imports the weekly well intervention plan from Excel, filters
wells by zone, and builds a priority matrix that tells each pulling rig
which wells to work next, ranked by production loss recovered per hour
of work and travel.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".wellpull.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
