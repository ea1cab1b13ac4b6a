package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conveyorci/conveyor/config"
	"github.com/conveyorci/conveyor/container"
	"github.com/conveyorci/conveyor/gitops"
	"github.com/conveyorci/conveyor/internal/tui"
	"github.com/conveyorci/conveyor/logging"
	"github.com/conveyorci/conveyor/pipeline"
	"github.com/conveyorci/conveyor/runstore"
	"github.com/conveyorci/conveyor/stages"
	"github.com/conveyorci/conveyor/validate"
)

var (
	runStoreDir string
	runBuilder  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the pipeline defined in conveyor.yaml",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runStoreDir, "store", ".conveyor", "run history directory")
	runCmd.Flags().StringVar(&runBuilder, "builder", "", "container builder for image stages (docker, podman, buildah)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	cfg, err := config.LoadPipelineConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	result := validate.ValidatePipelineConfig(cfg)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
	if !result.IsValid() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
		}
		return pipeline.NewDefinitionError("config validation failed: %d error(s)", len(result.Errors))
	}

	workDir := filepath.Dir(cfgPath)
	if cfg.WorkDir != "" {
		if filepath.IsAbs(cfg.WorkDir) {
			workDir = cfg.WorkDir
		} else {
			workDir = filepath.Join(workDir, cfg.WorkDir)
		}
	}

	logger := logging.NewJSONLogger(os.Stderr, verbose)

	// The commit hash tags the run, the image, and the manifest update.
	commit, err := gitops.New(workDir).HeadCommit(cmd.Context())
	if err != nil {
		logger.Warn("cannot read git HEAD; run is untagged", map[string]any{"error": err.Error()})
		commit = ""
	}

	bindings, err := config.ResolveBindings(cfg, os.Getenv, commit)
	if err != nil {
		return err
	}

	var builder container.Builder
	if runBuilder != "" {
		builder = container.Get(runBuilder)
		if builder == nil {
			return pipeline.NewDefinitionError("unknown builder %q", runBuilder)
		}
	}

	p, err := stages.Build(cfg, stages.FactoryOptions{Builder: builder})
	if err != nil {
		return err
	}

	hooks := pipeline.NewHookRegistry()
	stages.RegisterHooks(hooks, cfg.Post)

	storeDir := runStoreDir
	if !filepath.IsAbs(storeDir) {
		storeDir = filepath.Join(workDir, storeDir)
	}
	store := runstore.New(storeDir)

	run := pipeline.NewRun(cfg.Pipeline, commit)
	logSink, err := store.LogWriter(run.ID)
	if err != nil {
		return err
	}
	defer logSink.Close() //nolint:errcheck

	rc := pipeline.NewRunContext(workDir, bindings, run, logger)
	rc.Verbose = verbose
	rc.Output = logSink
	if verbose {
		rc.Output = io.MultiWriter(logSink, os.Stdout)
	}

	styles := tui.NewStyleSet(tui.DetectTheme(themeOverride))
	executor := &pipeline.Executor{
		Hooks:    hooks,
		Reporter: tui.NewRunDisplay(os.Stdout, styles),
		Archiver: store,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	execErr := executor.Execute(ctx, p, rc)

	for _, w := range rc.Warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
	if execErr != nil {
		fmt.Fprintf(os.Stderr, "Run log: %s\n", store.LogPath(run.ID))
	}
	return execErr
}

func resolveConfigPath() (string, error) {
	if filepath.IsAbs(cfgFile) {
		return cfgFile, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return filepath.Join(wd, cfgFile), nil
}
