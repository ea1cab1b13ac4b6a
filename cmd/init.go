package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/conveyorci/conveyor/internal/tui"
	"github.com/conveyorci/conveyor/util"
)

var (
	initName    string
	initBuilder string
	initForce   bool
	initYes     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a starter conveyor.yaml",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "pipeline name")
	initCmd.Flags().StringVar(&initBuilder, "builder", "", "container builder (docker, podman, buildah)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing definition")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "accept defaults without prompting")
}

func runInit(cmd *cobra.Command, args []string) error {
	name := util.Slugify(initName)
	builder := initBuilder

	interactive := !initYes && name == "" && term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		styles := tui.NewStyleSet(tui.DetectTheme(themeOverride))
		result, err := tui.RunInitWizard(styles)
		if err != nil {
			return err
		}
		if result.Aborted {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			return nil
		}
		name = result.Name
		builder = result.Builder
	}
	if name == "" {
		name = "my-service"
	}

	if _, err := os.Stat(cfgFile); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
	}

	if err := os.WriteFile(cfgFile, []byte(scaffold(name, builder)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", cfgFile, err)
	}

	fmt.Printf("Created %s for pipeline %q.\n", cfgFile, name)
	fmt.Println("Edit the stages, then run: conveyor run")
	return nil
}

func scaffold(name, builder string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pipeline: %s\n", name)
	b.WriteString("version: 0.1.0\n\n")
	fmt.Fprintf(&b, "env:\n  IMAGE: registry.example.com/%s\n\n", name)
	b.WriteString("stages:\n")
	b.WriteString("  - name: build\n    run:\n      - make build\n")
	b.WriteString("  - name: test\n    run:\n      - make test\n    timeout: 10m\n")
	b.WriteString("  - name: image\n    uses: image\n    with:\n      repository: ${IMAGE}\n      push: \"false\"\n")
	if builder != "" {
		fmt.Fprintf(&b, "      builder: %s\n", builder)
	}
	b.WriteString("  - name: health\n    uses: health-check\n    with:\n      url: http://localhost:8080/healthz\n      delay: 5s\n")
	b.WriteString("\npost:\n  always:\n    - echo \"pipeline finished\"\n")
	return b.String()
}
