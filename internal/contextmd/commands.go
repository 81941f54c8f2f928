package contextmd

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/andywolf/forge/internal/scanner"
)

// Commands lists the build, test, and lint invocations for a project.
type Commands struct {
	BuildSystem string
	Build       []string
	Test        []string
	Lint        []string
}

// Empty reports whether no command was detected.
func (c Commands) Empty() bool {
	return len(c.Build) == 0 && len(c.Test) == 0 && len(c.Lint) == 0
}

// DetectCommands picks the build system from the root files in the
// inventory. Makefile targets and package.json scripts are read from disk.
func DetectCommands(p *scanner.ProjectStructure) Commands {
	root := make(map[string]bool)
	for _, f := range p.RootFiles() {
		root[f.Path] = true
	}

	switch {
	case root["go.mod"]:
		return goCommands(p.Root, root)
	case root[scanner.PackageJSONFile]:
		return nodeCommands(p.Root, root)
	case root[scanner.CargoFile]:
		return Commands{BuildSystem: "cargo", Build: []string{"cargo build"}, Test: []string{"cargo test"}, Lint: []string{"cargo clippy"}}
	case root[scanner.PyprojectFile]:
		return pythonCommands(p, root)
	case root["setup.py"] || root["requirements.txt"]:
		return Commands{BuildSystem: "pip", Build: []string{"pip install -e ."}, Test: []string{"pytest"}, Lint: []string{"ruff check ."}}
	case root["pom.xml"]:
		return Commands{BuildSystem: "maven", Build: []string{"mvn compile"}, Test: []string{"mvn test"}, Lint: []string{"mvn checkstyle:check"}}
	case root["build.gradle"] || root["build.gradle.kts"]:
		return Commands{BuildSystem: "gradle", Build: []string{"./gradlew build"}, Test: []string{"./gradlew test"}, Lint: []string{"./gradlew check"}}
	case root["Gemfile"]:
		return Commands{BuildSystem: "bundler", Build: []string{"bundle install"}, Test: []string{"bundle exec rspec"}, Lint: []string{"bundle exec rubocop"}}
	case root["Makefile"]:
		return makeCommands(p.Root)
	}
	return Commands{}
}

func goCommands(rootDir string, root map[string]bool) Commands {
	c := Commands{
		BuildSystem: "go",
		Build:       []string{"go build ./..."},
		Test:        []string{"go test ./..."},
		Lint:        []string{"go vet ./..."},
	}

	if root[".golangci.yml"] || root[".golangci.yaml"] {
		c.Lint = []string{"golangci-lint run"}
	}

	if root["Makefile"] {
		targets := makefileTargets(rootDir)
		if targets["build"] {
			c.Build = []string{"make build"}
		}
		if targets["test"] {
			c.Test = []string{"make test"}
		}
		if targets["lint"] {
			c.Lint = []string{"make lint"}
		}
	}

	return c
}

func nodeCommands(rootDir string, root map[string]bool) Commands {
	c := Commands{BuildSystem: "npm"}

	switch {
	case root["pnpm-lock.yaml"]:
		c.BuildSystem = "pnpm"
	case root["yarn.lock"]:
		c.BuildSystem = "yarn"
	case root["bun.lockb"]:
		c.BuildSystem = "bun"
	}

	data, err := os.ReadFile(filepath.Join(rootDir, scanner.PackageJSONFile))
	if err != nil {
		return c
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return c
	}

	runner := c.BuildSystem
	if runner == "npm" {
		runner = "npm run"
	}
	pick := func(scripts ...string) []string {
		for _, s := range scripts {
			if _, ok := pkg.Scripts[s]; ok {
				return []string{runner + " " + s}
			}
		}
		return nil
	}

	c.Build = pick("build", "compile")
	c.Test = pick("test", "test:unit", "jest", "vitest")
	c.Lint = pick("lint", "eslint", "check")
	return c
}

var pythonLinters = []struct {
	dep string
	cmd string
}{
	{"ruff", "ruff check ."},
	{"flake8", "flake8 ."},
	{"pylint", "pylint ."},
}

func pythonCommands(p *scanner.ProjectStructure, root map[string]bool) Commands {
	c := Commands{
		BuildSystem: "pip",
		Build:       []string{"pip install -e ."},
		Test:        []string{"pytest"},
	}
	switch {
	case root["uv.lock"]:
		c.BuildSystem = "uv"
		c.Build = []string{"uv sync"}
		c.Test = []string{"uv run pytest"}
	case root["poetry.lock"]:
		c.BuildSystem = "poetry"
		c.Build = []string{"poetry install"}
		c.Test = []string{"poetry run pytest"}
	}

	dev := p.DeclaredDependencies[scanner.GroupDev]
	for _, l := range pythonLinters {
		if containsString(dev, l.dep) {
			c.Lint = []string{l.cmd}
			break
		}
	}
	if containsString(dev, "mypy") {
		c.Lint = append(c.Lint, "mypy .")
	}
	return c
}

func makeCommands(rootDir string) Commands {
	c := Commands{BuildSystem: "make"}
	targets := makefileTargets(rootDir)

	pick := func(names ...string) []string {
		for _, t := range names {
			if targets[t] {
				return []string{"make " + t}
			}
		}
		return nil
	}

	c.Build = pick("build", "all")
	c.Test = pick("test", "check")
	c.Lint = pick("lint", "vet")
	return c
}

var makeTargetRe = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_-]*)\s*:([^=]|$)`)

func makefileTargets(rootDir string) map[string]bool {
	targets := make(map[string]bool)

	f, err := os.Open(filepath.Join(rootDir, "Makefile"))
	if err != nil {
		return targets
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if m := makeTargetRe.FindStringSubmatch(sc.Text()); m != nil {
			targets[m[1]] = true
		}
	}
	return targets
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
