package contextmd

import (
	"strings"

	"github.com/andywolf/forge/internal/scanner"
	"github.com/bmatcuk/doublestar"
)

// Layout summarizes where things live in a scanned project.
type Layout struct {
	SourceDirs  []string
	TestDirs    []string
	EntryPoints []string
	ConfigFiles []string
	HasDocker   bool
	CISystem    string
}

// Common source directory names
var sourceDirNames = map[string]bool{
	"src":        true,
	"lib":        true,
	"pkg":        true,
	"internal":   true,
	"app":        true,
	"cmd":        true,
	"core":       true,
	"components": true,
	"pages":      true,
}

// Common test directory names
var testDirNames = map[string]bool{
	"test":        true,
	"tests":       true,
	"spec":        true,
	"specs":       true,
	"__tests__":   true,
	"testdata":    true,
	"e2e":         true,
	"integration": true,
}

// Root-level config files worth pointing out
var configPatterns = []string{
	".forge.yaml",
	".env.example",
	"*.config.js",
	"*.config.ts",
	"tsconfig.json",
	"jest.config.*",
	"vitest.config.*",
	".eslintrc*",
	".prettierrc*",
	".golangci.y*ml",
	"docker-compose.y*ml",
	"Dockerfile",
	"Makefile",
	"tox.ini",
	"setup.cfg",
}

// Entry points checked against the inventory, in display order
var entryPointPatterns = []string{
	"cmd/*/main.go",
	"main.go",
	"main.py",
	"app.py",
	"__main__.py",
	"manage.py",
	"src/*/__main__.py",
	"index.js",
	"index.ts",
	"src/index.ts",
	"src/index.js",
	"src/main.ts",
	"src/main.js",
	"src/main.rs",
	"src/lib.rs",
}

var ciSystems = []struct {
	pattern string
	name    string
}{
	{".github/workflows/*.y*ml", "github-actions"},
	{".gitlab-ci.yml", "gitlab-ci"},
	{".circleci/config.yml", "circleci"},
	{".travis.yml", "travis-ci"},
	{"Jenkinsfile", "jenkins"},
}

// DetectLayout derives the project layout from the scan inventory. It does
// not touch the filesystem.
func DetectLayout(p *scanner.ProjectStructure) Layout {
	var layout Layout

	for _, dir := range p.TopLevelDirectories() {
		if strings.HasPrefix(dir, ".") {
			continue
		}
		if sourceDirNames[dir] {
			layout.SourceDirs = append(layout.SourceDirs, dir)
		}
		if testDirNames[dir] {
			layout.TestDirs = append(layout.TestDirs, dir)
		}
	}

	for _, f := range p.RootFiles() {
		if matchAny(configPatterns, f.Path) {
			layout.ConfigFiles = append(layout.ConfigFiles, f.Path)
		}
		switch f.Path {
		case "Dockerfile", "docker-compose.yml", "docker-compose.yaml":
			layout.HasDocker = true
		}
	}

	for _, pattern := range entryPointPatterns {
		for _, f := range p.Files {
			if ok, _ := doublestar.Match(pattern, f.Path); ok {
				layout.EntryPoints = append(layout.EntryPoints, f.Path)
			}
		}
	}

	for _, ci := range ciSystems {
		if layout.CISystem != "" {
			break
		}
		for _, f := range p.Files {
			if ok, _ := doublestar.Match(ci.pattern, f.Path); ok {
				layout.CISystem = ci.name
				break
			}
		}
	}

	return layout
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
