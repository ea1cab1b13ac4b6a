package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/conveyorci/conveyor/pipeline"
)

// RunDisplay renders pipeline progress to the terminal. It implements
// pipeline.StageReporter.
type RunDisplay struct {
	w      io.Writer
	styles *StyleSet
	total  int
}

var _ pipeline.StageReporter = (*RunDisplay)(nil)

// NewRunDisplay creates a display writing to w with the given styles.
func NewRunDisplay(w io.Writer, styles *StyleSet) *RunDisplay {
	return &RunDisplay{w: w, styles: styles}
}

func (d *RunDisplay) RunStarted(run *pipeline.Run, totalStages int) {
	d.total = totalStages
	title := d.styles.Title.Render("⛟  conveyor")
	meta := d.styles.Subtitle.Render(fmt.Sprintf("%s · run %s", run.Pipeline, run.ID))
	if run.Commit != "" {
		meta += d.styles.DimTxt.Render("  @" + run.Commit)
	}
	fmt.Fprintf(d.w, "\n%s  %s\n%s\n", title, meta, d.divider())
}

func (d *RunDisplay) StageStarted(index int, name string) {
	step := d.styles.DimTxt.Render(fmt.Sprintf("[%d/%d]", index+1, d.total))
	fmt.Fprintf(d.w, "%s %s %s\n", step, d.styles.AccentTxt.Render("▸"), name)
}

func (d *RunDisplay) StageFinished(res pipeline.StageResult) {
	dur := d.styles.DimTxt.Render(formatDuration(time.Duration(res.DurationMS) * time.Millisecond))
	if res.Status == pipeline.StatusSucceeded {
		fmt.Fprintf(d.w, "      %s %s  %s\n", d.styles.SuccessTxt.Render("✔"), res.Name, dur)
		return
	}
	fmt.Fprintf(d.w, "      %s %s  %s\n", d.styles.ErrorTxt.Render("✘"), res.Name, dur)
	fmt.Fprintf(d.w, "        %s\n", d.styles.ErrorTxt.Render(res.Error))
}

func (d *RunDisplay) RunFinished(run *pipeline.Run) {
	var status string
	if run.Status == pipeline.StatusSucceeded {
		status = d.styles.SuccessTxt.Render("SUCCEEDED")
	} else {
		status = d.styles.ErrorTxt.Render("FAILED")
	}
	summary := fmt.Sprintf("%s  %s  %s",
		status,
		d.styles.DimTxt.Render(formatDuration(run.Duration())),
		d.styles.Subtitle.Render(fmt.Sprintf("%d/%d stages", len(run.Stages), d.total)))
	fmt.Fprintf(d.w, "%s\n%s\n", d.divider(), d.styles.Box.Render(summary))
}

func (d *RunDisplay) divider() string {
	width := terminalWidth()
	if width > 76 {
		width = 76
	}
	return d.styles.DimTxt.Render(strings.Repeat("─", width))
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 76
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	case d >= time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}
