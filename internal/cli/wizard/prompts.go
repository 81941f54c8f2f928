// Package wizard provides interactive prompts for CLI commands.
package wizard

import (
	"fmt"
	"strings"

	"github.com/andywolf/forge/internal/scanner"
	"github.com/charmbracelet/huh"
)

// ConfirmProjectInfo presents the detected project metadata for user
// confirmation and lets the user correct it. Corrections are applied to a
// copy; p itself is never modified.
func ConfirmProjectInfo(p *scanner.ProjectStructure) (*scanner.ProjectStructure, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Detected Project").
				Description(Summary(p)),

			huh.NewConfirm().
				Title("Is this correct?").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}

	if confirmed {
		return p, nil
	}

	return editProjectInfo(p)
}

func editProjectInfo(p *scanner.ProjectStructure) (*scanner.ProjectStructure, error) {
	edited := cloneForEdit(p)
	coreDeps := strings.Join(edited.DeclaredDependencies[scanner.GroupCore], ", ")
	devDeps := strings.Join(edited.DeclaredDependencies[scanner.GroupDev], ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Name").
				Value(&edited.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("project name is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Description (optional)").
				CharLimit(200).
				Value(&edited.Description),

			huh.NewInput().
				Title("Version (optional)").
				Value(&edited.Version),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Core Dependencies (comma-separated)").
				Value(&coreDeps),

			huh.NewInput().
				Title("Dev Dependencies (comma-separated)").
				Value(&devDeps),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}

	setGroup(edited.DeclaredDependencies, scanner.GroupCore, parseList(coreDeps))
	setGroup(edited.DeclaredDependencies, scanner.GroupDev, parseList(devDeps))

	return edited, nil
}

// cloneForEdit copies the fields the edit form can change, including the
// dependency lists, so the scan result stays untouched.
func cloneForEdit(p *scanner.ProjectStructure) *scanner.ProjectStructure {
	c := *p
	c.DeclaredDependencies = make(map[string][]string, len(p.DeclaredDependencies))
	for group, deps := range p.DeclaredDependencies {
		c.DeclaredDependencies[group] = append([]string(nil), deps...)
	}
	return &c
}

func setGroup(deps map[string][]string, group string, list []string) {
	if len(list) == 0 {
		delete(deps, group)
		return
	}
	deps[group] = list
}

// ConfirmRegeneration asks user to confirm regeneration when custom content exists.
func ConfirmRegeneration(fileName string, hasCustomContent bool) (bool, error) {
	if !hasCustomContent {
		return true, nil
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("Existing %s Found", fileName)).
				Description("Custom sections will be preserved. Generated sections will be updated."),

			huh.NewConfirm().
				Title("Continue with regeneration?").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

// Summary renders the detected metadata shown in the confirmation note.
func Summary(p *scanner.ProjectStructure) string {
	return fmt.Sprintf(
		"Project: %s\nDescription: %s\nVersion: %s\nPrimary Language: %s\nLanguages: %s\nDependencies: %d core, %d dev",
		p.Name,
		orUnknown(p.Description),
		orUnknown(p.Version),
		orUnknown(p.PrimaryLanguage),
		formatLanguages(p.Languages),
		len(p.DeclaredDependencies[scanner.GroupCore]),
		len(p.DeclaredDependencies[scanner.GroupDev]),
	)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func formatLanguages(languages []scanner.LanguageCount) string {
	if len(languages) == 0 {
		return "Unknown"
	}
	var parts []string
	for _, lang := range languages {
		parts = append(parts, fmt.Sprintf("%s (%d)", lang.Name, lang.Files))
	}
	return strings.Join(parts, ", ")
}

// parseList splits a comma-separated list, dropping blanks and repeats.
func parseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var result []string
	for _, p := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		result = append(result, trimmed)
	}
	return result
}
