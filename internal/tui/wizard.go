package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conveyorci/conveyor/util"
)

// WizardResult holds the values collected by the init wizard.
type WizardResult struct {
	Name    string
	Builder string
	Aborted bool
}

var wizardBuilders = []struct {
	name string
	desc string
}{
	{"docker", "build with the docker CLI (most common)"},
	{"podman", "rootless builds with podman"},
	{"buildah", "daemonless builds with buildah"},
	{"", "detect at run time"},
}

const (
	phaseName = iota
	phaseBuilder
	phaseDone
)

type wizardModel struct {
	styles *StyleSet
	phase  int
	input  textinput.Model
	cursor int
	err    string
	result WizardResult
}

func newWizardModel(styles *StyleSet) wizardModel {
	ti := textinput.New()
	ti.Placeholder = "payment-service"
	ti.CharLimit = 60
	ti.Focus()
	return wizardModel{styles: styles, input: ti}
}

func (m wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.result.Aborted = true
			return m, tea.Quit
		}
	}

	switch m.phase {
	case phaseName:
		if ok && key.String() == "enter" {
			name := util.Slugify(m.input.Value())
			if name == "" {
				m.err = "pipeline name must contain letters or digits"
				return m, nil
			}
			m.result.Name = name
			m.err = ""
			m.phase = phaseBuilder
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseBuilder:
		if !ok {
			return m, nil
		}
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(wizardBuilders)-1 {
				m.cursor++
			}
		case "enter":
			m.result.Builder = wizardBuilders[m.cursor].name
			m.phase = phaseDone
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m wizardModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + m.styles.Title.Render("⛟  conveyor init") + "\n")
	b.WriteString("  " + m.styles.Subtitle.Render("Scaffold a pipeline definition.") + "\n\n")

	switch m.phase {
	case phaseName:
		b.WriteString("  " + m.styles.AccentTxt.Render("Pipeline name") + "\n")
		b.WriteString("  " + m.input.View() + "\n")
		if m.err != "" {
			b.WriteString("  " + m.styles.ErrorTxt.Render(m.err) + "\n")
		}
		b.WriteString("\n  " + m.styles.DimTxt.Render("enter confirm · esc cancel") + "\n")

	case phaseBuilder:
		b.WriteString("  " + m.styles.AccentTxt.Render("Container builder") + "\n")
		for i, item := range wizardBuilders {
			radio := m.styles.DimTxt.Render("○")
			label := m.styles.Subtitle.Render(displayName(item.name))
			if i == m.cursor {
				radio = m.styles.AccentTxt.Render("◉")
				label = m.styles.Title.Render(displayName(item.name))
			}
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", radio, label, m.styles.DimTxt.Render(item.desc)))
		}
		b.WriteString("\n  " + m.styles.DimTxt.Render("↑/↓ move · enter confirm · esc cancel") + "\n")
	}
	return b.String()
}

func displayName(builder string) string {
	if builder == "" {
		return "auto"
	}
	return builder
}

// RunInitWizard collects a pipeline name and builder choice interactively.
func RunInitWizard(styles *StyleSet) (*WizardResult, error) {
	final, err := tea.NewProgram(newWizardModel(styles)).Run()
	if err != nil {
		return nil, fmt.Errorf("running init wizard: %w", err)
	}
	m, ok := final.(wizardModel)
	if !ok {
		return nil, fmt.Errorf("unexpected wizard model type")
	}
	return &m.result, nil
}
