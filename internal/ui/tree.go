package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeEntry is one line of a command tree listing.
type TreeEntry struct {
	Depth       int
	Name        string
	Description string
	Group       bool
	Runnable    bool
}

// TreeRenderer formats a command tree listing.
type TreeRenderer struct {
	groupStyle lipgloss.Style
	leafStyle  lipgloss.Style
	mutedStyle lipgloss.Style
}

// NewTreeRenderer creates a renderer with default styles.
func NewTreeRenderer() *TreeRenderer {
	return &TreeRenderer{
		groupStyle: lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true),
		leafStyle:  lipgloss.NewStyle().Foreground(ColorPrimary),
		mutedStyle: MutedStyle(),
	}
}

// Render returns the listing, one entry per line.
func (r *TreeRenderer) Render(entries []TreeEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(strings.Repeat("  ", e.Depth))
		switch {
		case e.Group:
			sb.WriteString(r.groupStyle.Render(SymbolGroup + " " + e.Name))
		case e.Runnable:
			sb.WriteString(r.leafStyle.Render(SymbolLeaf + " " + e.Name))
		default:
			sb.WriteString(r.mutedStyle.Render(SymbolSkipped + " " + e.Name))
		}
		if e.Description != "" {
			sb.WriteString("  ")
			sb.WriteString(r.mutedStyle.Render(e.Description))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderTree writes the listing to w.
func RenderTree(w io.Writer, entries []TreeEntry) {
	fmt.Fprint(w, NewTreeRenderer().Render(entries))
}
