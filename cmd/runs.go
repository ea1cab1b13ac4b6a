package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conveyorci/conveyor/runstore"
)

var runsStoreDir string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived pipeline runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsStoreDir, "store", ".conveyor", "run history directory")
}

func runRuns(cmd *cobra.Command, args []string) error {
	dir := runsStoreDir
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	runs, err := runstore.New(dir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tPIPELINE\tSTATUS\tCOMMIT\tSTAGES\tSTARTED")
	for _, r := range runs {
		started := ""
		if !r.StartedAt.IsZero() {
			started = r.StartedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Pipeline, r.Status, r.Commit, len(r.Stages), started)
	}
	return w.Flush()
}
