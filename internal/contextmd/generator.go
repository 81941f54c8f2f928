// Package contextmd generates and parses CLAUDE.md context files from a
// project scan.
package contextmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/andywolf/forge/internal/scanner"
	"github.com/andywolf/forge/internal/workspace"
)

const (
	// Markers for regeneration-safe sections
	GeneratedStartMarker = "<!-- forge:generated:start -->"
	GeneratedEndMarker   = "<!-- forge:generated:end -->"

	// DefaultFileName is the context file written at the project root.
	DefaultFileName = "CLAUDE.md"

	maxListedDependencies = 15
	maxListedLanguages    = 8
)

// LanguageShare is one row of the language table.
type LanguageShare struct {
	scanner.LanguageCount
	Percentage float64
}

// Document is the view of a scan rendered into the template.
type Document struct {
	Name            string
	Description     string
	Version         string
	PrimaryLanguage string
	Framework       string
	TotalFiles      int
	TotalLines      int
	Languages       []LanguageShare
	Layout          Layout
	OtherDirs       []string
	Commands        Commands
	Workspace       *workspace.Workspace

	CoreDependencies []string
	DevDependencies  []string
	MoreCore         int
	MoreDev          int
}

// NewDocument builds the template view of p.
func NewDocument(p *scanner.ProjectStructure) Document {
	doc := Document{
		Name:            p.Name,
		Description:     p.Description,
		Version:         p.Version,
		PrimaryLanguage: p.PrimaryLanguage,
		Framework:       DetectFramework(p),
		TotalFiles:      p.TotalFiles,
		TotalLines:      p.TotalLines,
		Layout:          DetectLayout(p),
		Commands:        DetectCommands(p),
	}

	// An unreadable workspace file leaves the section out.
	if ws, err := workspace.Detect(p); err == nil {
		doc.Workspace = ws
	}

	mapped := 0
	for _, l := range p.Languages {
		mapped += l.Files
	}
	for i, l := range p.Languages {
		if i == maxListedLanguages {
			break
		}
		doc.Languages = append(doc.Languages, LanguageShare{
			LanguageCount: l,
			Percentage:    float64(l.Files) * 100 / float64(mapped),
		})
	}

	known := make(map[string]bool)
	for _, d := range doc.Layout.SourceDirs {
		known[d] = true
	}
	for _, d := range doc.Layout.TestDirs {
		known[d] = true
	}
	for _, d := range p.TopLevelDirectories() {
		if !known[d] && d[0] != '.' {
			doc.OtherDirs = append(doc.OtherDirs, d)
		}
	}

	doc.CoreDependencies, doc.MoreCore = truncate(p.DeclaredDependencies[scanner.GroupCore], maxListedDependencies)
	doc.DevDependencies, doc.MoreDev = truncate(p.DeclaredDependencies[scanner.GroupDev], maxListedDependencies)

	return doc
}

func truncate(list []string, n int) ([]string, int) {
	if len(list) <= n {
		return list, 0
	}
	return list[:n], len(list) - n
}

// Generator creates context files from scan results.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator creates a new context file generator.
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("contextmd").Parse(contextMDTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// Generate renders the generated section for p. A project with no files
// gets the greenfield placeholder.
func (g *Generator) Generate(p *scanner.ProjectStructure) (string, error) {
	if p.TotalFiles == 0 {
		return g.GenerateGreenfield(p.Name), nil
	}
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, NewDocument(p)); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateGreenfield creates a minimal generated section for a new project.
func (g *Generator) GenerateGreenfield(projectName string) string {
	return fmt.Sprintf(greenfieldTemplate, GeneratedStartMarker, projectName, "`", "`", GeneratedEndMarker)
}

// Render returns the full file content for path: freshly generated content
// with any text around the previous generated section kept in place.
func (g *Generator) Render(path string, p *scanner.ProjectStructure) (string, error) {
	newContent, err := g.Generate(p)
	if err != nil {
		return "", err
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newContent + defaultCustomSection, nil
		}
		return "", fmt.Errorf("failed to read existing %s: %w", filepath.Base(path), err)
	}

	parser := &Parser{}
	parsed, err := parser.Parse(string(existing))
	if err != nil {
		return "", fmt.Errorf("failed to parse existing %s: %w", filepath.Base(path), err)
	}

	if parsed.HasCustomContent() {
		// newContent already ends the marker line.
		custom := parsed.CustomContent
		if parsed.HasMarkers {
			custom = strings.TrimPrefix(custom, "\n")
		}
		return parsed.PreContent + newContent + custom, nil
	}
	return parsed.PreContent + newContent + defaultCustomSection, nil
}

// WriteToProject writes the context file into rootDir and returns its path.
// If the file already exists, content outside the generated markers is
// preserved.
func (g *Generator) WriteToProject(rootDir, fileName string, p *scanner.ProjectStructure) (string, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	path := filepath.Join(rootDir, fileName)

	content, err := g.Render(path, p)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", fileName, err)
	}
	return path, nil
}
