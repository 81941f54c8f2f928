package contextmd

const contextMDTemplate = `<!-- forge:generated:start -->
# {{.Name}}
{{- if .Description}}

{{.Description}}
{{- end}}

## Project Overview
{{if .PrimaryLanguage}}
**Primary Language:** {{.PrimaryLanguage}}
{{end}}
{{- if .Framework}}
**Framework:** {{.Framework}}
{{end}}
{{- if .Version}}
**Version:** {{.Version}}
{{end}}
{{- if .Commands.BuildSystem}}
**Build System:** {{.Commands.BuildSystem}}
{{end}}
**Size:** {{.TotalFiles}} files, {{.TotalLines}} lines
{{- if .Languages}}

| Language | Files | Lines | Share |
|---|---|---|---|
{{range .Languages}}| {{.Name}} | {{.Files}} | {{.Lines}} | {{printf "%.0f" .Percentage}}% |
{{end}}
{{- end}}

## Project Structure

{{- if .Layout.SourceDirs}}

### Source Directories
{{range .Layout.SourceDirs}}- ` + "`{{.}}/`" + `
{{end}}
{{- end}}

{{- if .Layout.TestDirs}}

### Test Directories
{{range .Layout.TestDirs}}- ` + "`{{.}}/`" + `
{{end}}
{{- end}}

{{- if .OtherDirs}}

### Other Directories
{{range .OtherDirs}}- ` + "`{{.}}/`" + `
{{end}}
{{- end}}

{{- if .Workspace}}

### Workspace Packages

Declared in ` + "`{{.Workspace.File}}`" + ` ({{.Workspace.Kind}}).
{{range .Workspace.Members}}- ` + "`{{.}}/`" + `
{{end}}
{{- end}}

{{- if .Layout.EntryPoints}}

### Entry Points
{{range .Layout.EntryPoints}}- ` + "`{{.}}`" + `
{{end}}
{{- end}}

{{- if .Layout.ConfigFiles}}

### Configuration Files
{{range .Layout.ConfigFiles}}- ` + "`{{.}}`" + `
{{end}}
{{- end}}

{{- if not .Commands.Empty}}

## Build & Test Commands

{{- if .Commands.Build}}

### Build
` + "```bash" + `
{{range .Commands.Build}}{{.}}
{{end}}` + "```" + `
{{- end}}

{{- if .Commands.Test}}

### Test
` + "```bash" + `
{{range .Commands.Test}}{{.}}
{{end}}` + "```" + `
{{- end}}

{{- if .Commands.Lint}}

### Lint
` + "```bash" + `
{{range .Commands.Lint}}{{.}}
{{end}}` + "```" + `
{{- end}}
{{- end}}

{{- if .Layout.HasDocker}}

## Docker

This project ships a container build.
{{- end}}

{{- if .Layout.CISystem}}

## CI/CD

**System:** {{.Layout.CISystem}}
{{- end}}

{{- if or .CoreDependencies .DevDependencies}}

## Dependencies
{{- if .CoreDependencies}}

### Core
{{range .CoreDependencies}}- {{.}}
{{end}}
{{- if .MoreCore}}- ...and {{.MoreCore}} more
{{end}}
{{- end}}
{{- if .DevDependencies}}

### Development
{{range .DevDependencies}}- {{.}}
{{end}}
{{- if .MoreDev}}- ...and {{.MoreDev}} more
{{end}}
{{- end}}
{{- end}}

<!-- forge:generated:end -->
`

const greenfieldTemplate = `%s
# %s

This is a new project. Run %sforge generate%s after adding code to generate project-specific instructions.

## Project Overview

*Project details will be detected after code is added.*

## Build & Test Commands

*Commands will be detected after build files are added.*

%s
`

const defaultCustomSection = `

## Custom Instructions

Add project-specific guidelines below. These will be preserved when regenerating.

### Code Style

<!-- Add style guidelines specific to your project -->

### Important Notes

<!-- Add any warnings or special considerations -->

### Off-Limits Areas

<!-- Specify files or directories that should not be modified -->
`
