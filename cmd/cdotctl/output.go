package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/cdotctl/internal/model"
)

const (
	outputAuto = "auto"
	outputJSON = "json"
	outputText = "text"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func renderOutcome(cmd *cobra.Command, format string, outcome *model.Outcome) error {
	out := cmd.OutOrStdout()

	switch format {
	case outputJSON:
		return renderOutcomeJSON(out, outcome)
	case outputText:
		return renderOutcomeText(out, outcome)
	case outputAuto, "":
		if isTerminal(out) {
			return renderOutcomeText(out, outcome)
		}
		return renderOutcomeJSON(out, outcome)
	default:
		return fmt.Errorf("unknown output format %q (expected auto, json or text)", format)
	}
}

func validateOutputFormat(format string) error {
	switch format {
	case outputAuto, outputJSON, outputText, "":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected auto, json or text)", format)
	}
}

func renderOutcomeJSON(w io.Writer, outcome *model.Outcome) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(outcome)
}

func renderOutcomeText(w io.Writer, outcome *model.Outcome) error {
	var b strings.Builder

	status := okStyle.Render("ok")
	switch {
	case outcome.Failed():
		status = failedStyle.Render("failed")
	case outcome.Changed && outcome.DryRun:
		status = changedStyle.Render("would change")
	case outcome.Changed:
		status = changedStyle.Render("changed")
	}

	fmt.Fprintf(&b, "%s %s %s", status, outcome.Kind, outcome.Resource)
	if outcome.Vserver != "" {
		b.WriteString(mutedStyle.Render(" on " + outcome.Vserver))
	}
	b.WriteString("\n")

	for _, action := range outcome.Actions {
		fmt.Fprintf(&b, "  - %s\n", action)
	}

	for _, line := range strings.Split(strings.TrimRight(outcome.Diff, "\n"), "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintf(&b, "  %s\n", addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintf(&b, "  %s\n", removeStyle.Render(line))
		default:
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	if outcome.Partial != "" {
		fmt.Fprintf(&b, "  %s\n", changedStyle.Render("partially applied: "+outcome.Partial))
	}
	if outcome.Failed() {
		fmt.Fprintf(&b, "  %s\n", failedStyle.Render(outcome.Failure.Message))
	}
	if outcome.RunID != "" {
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render("run "+outcome.RunID))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
