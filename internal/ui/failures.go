package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/cmdtree/internal/util"
)

// Failure is one failed option or argument handler.
type Failure struct {
	Name    string
	Message string
}

// FailureRenderer formats option handler failures for terminal display.
type FailureRenderer struct {
	errorStyle lipgloss.Style
	nameStyle  lipgloss.Style
	mutedStyle lipgloss.Style
}

// NewFailureRenderer creates a renderer with default styles.
func NewFailureRenderer() *FailureRenderer {
	return &FailureRenderer{
		errorStyle: ErrorStyle(),
		nameStyle:  InfoStyle(),
		mutedStyle: MutedStyle(),
	}
}

// Render returns the formatted block, or "" when there are no failures.
func (r *FailureRenderer) Render(failures []Failure) string {
	if len(failures) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(r.errorStyle.Render(fmt.Sprintf("%s %d input %s failed",
		SymbolFail, len(failures), util.Pluralize(len(failures), "check", "checks"))))
	sb.WriteString("\n")

	for _, f := range failures {
		sb.WriteString("  ")
		sb.WriteString(r.nameStyle.Render(f.Name))
		sb.WriteString("\n")
		for _, line := range strings.Split(f.Message, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString("    ")
			sb.WriteString(r.mutedStyle.Render(line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderFailures writes the failure block to w. A nil writer is ignored.
func RenderFailures(w io.Writer, failures []Failure) {
	if w == nil {
		return
	}
	if out := NewFailureRenderer().Render(failures); out != "" {
		fmt.Fprint(w, out)
	}
}

// RenderError writes a one-line error with the failure symbol.
func RenderError(w io.Writer, msg string) {
	if w == nil {
		return
	}
	fmt.Fprintln(w, ErrorStyle().Render(SymbolFail+" "+msg))
}
