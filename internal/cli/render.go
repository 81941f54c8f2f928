package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/andywolf/forge/internal/scanner"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const maxListedDirectories = 12

// renderResult writes p to w in the requested format.
func renderResult(w io.Writer, p *scanner.ProjectStructure, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, renderText(w, p))
		return err
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// textStyles holds the styles for the text summary. The renderer decides
// from the writer whether colour is emitted.
type textStyles struct {
	title lipgloss.Style
	label lipgloss.Style
	muted lipgloss.Style
	warn  lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		label: r.NewStyle().Foreground(lipgloss.Color("245")).Width(18),
		muted: r.NewStyle().Foreground(lipgloss.Color("240")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func renderText(w io.Writer, p *scanner.ProjectStructure) string {
	s := newTextStyles(w)
	var b strings.Builder

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(s.label.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	b.WriteString(s.title.Render(p.Name))
	b.WriteString("\n")
	row("Root", p.Root)
	row("Description", p.Description)
	row("Version", p.Version)
	row("Primary language", p.PrimaryLanguage)
	row("Files", fmt.Sprintf("%d (%d lines)", p.TotalFiles, p.TotalLines))
	row("Directories", fmt.Sprintf("%d", len(p.Directories)))

	if len(p.Languages) > 0 {
		b.WriteString("\n")
		b.WriteString(s.title.Render("Languages"))
		b.WriteString("\n")
		for _, l := range p.Languages {
			row("  "+l.Name, fmt.Sprintf("%d files, %d lines", l.Files, l.Lines))
		}
	}

	if top := p.TopLevelDirectories(); len(top) > 0 {
		b.WriteString("\n")
		b.WriteString(s.title.Render("Top-level directories"))
		b.WriteString("\n")
		for i, d := range top {
			if i == maxListedDirectories {
				b.WriteString(s.muted.Render(fmt.Sprintf("  ...and %d more", len(top)-i)))
				b.WriteString("\n")
				break
			}
			b.WriteString("  " + d + "/\n")
		}
	}

	groups := make([]string, 0, len(p.DeclaredDependencies))
	for g := range p.DeclaredDependencies {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	if len(groups) > 0 {
		b.WriteString("\n")
		b.WriteString(s.title.Render("Dependencies"))
		b.WriteString("\n")
		for _, g := range groups {
			row("  "+g, strings.Join(p.DeclaredDependencies[g], ", "))
		}
	}

	if p.Truncated {
		b.WriteString("\n")
		b.WriteString(s.warn.Render(fmt.Sprintf("Scan stopped at %d files; raise scan.max_files to see more.", p.TotalFiles)))
		b.WriteString("\n")
	}
	if len(p.Skipped) > 0 {
		reasons := make([]string, 0, len(p.Skipped))
		for r := range p.Skipped {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		parts := make([]string, 0, len(reasons))
		for _, r := range reasons {
			parts = append(parts, fmt.Sprintf("%s=%d", r, p.Skipped[scanner.SkipReason(r)]))
		}
		b.WriteString("\n")
		b.WriteString(s.muted.Render("Skipped: " + strings.Join(parts, " ")))
		b.WriteString("\n")
	}

	return b.String()
}
