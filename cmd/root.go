// Package cmd implements the conveyor CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conveyorci/conveyor/pipeline"
)

var (
	cfgFile       string
	verbose       bool
	themeOverride string
)

var rootCmd = &cobra.Command{
	Use:   "conveyor",
	Short: "Run declarative deployment pipelines",
	Long:  "Conveyor loads a conveyor.yaml pipeline definition and executes its stages strictly in order, stopping at the first failure.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "conveyor.yaml", "pipeline definition path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&themeOverride, "theme", "", "terminal color theme: dark, light, or auto")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}

// SetVersionInfo sets the version and commit for display.
func SetVersionInfo(version, commit string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("conveyor %s (commit: %s)\n", version, commit))
}

// Execute runs the root command. A failed stage's own exit code bubbles up
// to the process exit status; internal errors exit 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(pipeline.ExitCode(err))
	}
}
