package scanner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Manifest and README file names, in precedence order.
const (
	PyprojectFile   = "pyproject.toml"
	PackageJSONFile = "package.json"
	CargoFile       = "Cargo.toml"
)

var readmeFiles = []string{"README.md", "README.rst", "README.txt", "README"}

const (
	maxManifestBytes  = 1 << 20
	maxDescriptionLen = 200
)

// manifest is what a single manifest scanner found. It is merged into the
// result only after the scanner finished without error.
type manifest struct {
	version      string
	description  string
	dependencies map[string][]string
}

type manifestParser struct {
	file  string
	parse func(data []byte) (manifest, error)
}

var manifestParsers = []manifestParser{
	{file: PyprojectFile, parse: parsePyproject},
	{file: PackageJSONFile, parse: parsePackageJSON},
	{file: CargoFile, parse: parseCargo},
}

// extractMetadata fills version, description, and declared dependencies from
// root-level manifests. Each field is written by the first manifest that
// provides it. Failures are logged and skipped.
func extractMetadata(root string, p *ProjectStructure, logger Logger) {
	for _, mp := range manifestParsers {
		data, err := readManifest(root, mp.file)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.Debug("skipping manifest", map[string]interface{}{"file": mp.file, "error": err.Error()})
			}
			continue
		}
		m, err := mp.parse(data)
		if err != nil {
			logger.Debug("skipping malformed manifest", map[string]interface{}{"file": mp.file, "error": err.Error()})
			continue
		}
		mergeManifest(p, m)
	}

	if p.Description != "" {
		return
	}
	for _, name := range readmeFiles {
		data, err := readManifest(root, name)
		if err != nil {
			continue
		}
		if desc := readmeDescription(string(data)); desc != "" {
			p.Description = desc
			return
		}
	}
}

func mergeManifest(p *ProjectStructure, m manifest) {
	if p.Version == "" {
		p.Version = m.version
	}
	if p.Description == "" {
		p.Description = m.description
	}
	for group, deps := range m.dependencies {
		if _, ok := p.DeclaredDependencies[group]; ok || len(deps) == 0 {
			continue
		}
		p.DeclaredDependencies[group] = deps
	}
}

// readManifest reads a root-level regular file of bounded size.
func readManifest(root, name string) ([]byte, error) {
	path := filepath.Join(root, name)
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", name)
	}
	if fi.Size() > maxManifestBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", name, maxManifestBytes)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxManifestBytes))
}

var (
	tomlHeaderRe   = regexp.MustCompile(`^\s*\[\[?\s*([^\[\]]+?)\s*\]\]?\s*(#.*)?$`)
	tomlKeyRe      = regexp.MustCompile(`^\s*("[^"]+"|'[^']+'|[A-Za-z0-9_.\-]+)\s*=`)
	specifierCutRe = regexp.MustCompile(`[><=!~;\[]`)
)

// tomlSection returns the lines of the named table, up to the next header.
func tomlSection(content, name string) ([]string, bool) {
	var (
		lines []string
		in    bool
		found bool
	)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := tomlHeaderRe.FindStringSubmatch(line); m != nil {
			in = m[1] == name
			found = found || in
			continue
		}
		if in {
			lines = append(lines, line)
		}
	}
	return lines, found
}

// tomlSubtables returns the suffixes of headers of the form [prefix.X].
func tomlSubtables(content, prefix string) []string {
	var names []string
	for _, line := range strings.Split(content, "\n") {
		m := tomlHeaderRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil || !strings.HasPrefix(m[1], prefix+".") {
			continue
		}
		names = append(names, unquote(strings.TrimPrefix(m[1], prefix+".")))
	}
	return names
}

// tomlString finds `key = "value"` among lines.
func tomlString(lines []string, key string) string {
	re := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key) + `\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	for _, line := range lines {
		if m := re.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1] + m[2])
		}
	}
	return ""
}

// tomlKeys lists the keys of a table in file order.
func tomlKeys(lines []string) []string {
	var keys []string
	for _, line := range lines {
		if m := tomlKeyRe.FindStringSubmatch(line); m != nil {
			keys = append(keys, unquote(m[1]))
		}
	}
	return keys
}

// tomlArray extracts the quoted strings of `key = [ ... ]`, which may span
// several lines. Nested arrays and comments are skipped.
func tomlArray(lines []string, key string) ([]string, bool) {
	text := strings.Join(lines, "\n")
	re := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(key) + `\s*=\s*\[`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return nil, false
	}

	var values []string
	depth := 1
	for i := loc[1]; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'':
			end := strings.IndexByte(text[i+1:], c)
			if end < 0 {
				return nil, false
			}
			if depth == 1 {
				values = append(values, text[i+1:i+1+end])
			}
			i += end + 1
		case '#':
			nl := strings.IndexByte(text[i:], '\n')
			if nl < 0 {
				return nil, false
			}
			i += nl
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return values, true
			}
		}
	}
	return nil, false
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// requirementNames strips version specifiers, markers, and extras from PEP
// 508 requirement strings and removes duplicates.
func requirementNames(reqs []string) []string {
	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if loc := specifierCutRe.FindStringIndex(r); loc != nil {
			r = r[:loc[0]]
		}
		names = append(names, strings.TrimSpace(r))
	}
	return uniqueNames(names)
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func parsePyproject(data []byte) (manifest, error) {
	if !utf8.Valid(data) {
		return manifest{}, errors.New("pyproject.toml is not valid UTF-8")
	}
	content := string(data)
	m := manifest{dependencies: map[string][]string{}}

	if project, ok := tomlSection(content, "project"); ok {
		m.version = tomlString(project, "version")
		m.description = tomlString(project, "description")
		if deps, ok := tomlArray(project, "dependencies"); ok {
			m.dependencies[GroupCore] = requirementNames(deps)
		}
	}
	if optional, ok := tomlSection(content, "project.optional-dependencies"); ok {
		if deps, ok := tomlArray(optional, "dev"); ok {
			m.dependencies[GroupDev] = requirementNames(deps)
		}
	}
	if len(m.dependencies[GroupDev]) == 0 {
		if groups, ok := tomlSection(content, "dependency-groups"); ok {
			if deps, ok := tomlArray(groups, "dev"); ok {
				m.dependencies[GroupDev] = requirementNames(deps)
			}
		}
	}

	// Poetry keeps dependencies as table keys.
	if poetry, ok := tomlSection(content, "tool.poetry"); ok {
		if m.version == "" {
			m.version = tomlString(poetry, "version")
		}
		if m.description == "" {
			m.description = tomlString(poetry, "description")
		}
	}
	if len(m.dependencies[GroupCore]) == 0 {
		if table, ok := tomlSection(content, "tool.poetry.dependencies"); ok {
			var deps []string
			for _, k := range tomlKeys(table) {
				if !strings.EqualFold(k, "python") {
					deps = append(deps, k)
				}
			}
			m.dependencies[GroupCore] = uniqueNames(deps)
		}
	}
	if len(m.dependencies[GroupDev]) == 0 {
		for _, name := range []string{"tool.poetry.dev-dependencies", "tool.poetry.group.dev.dependencies"} {
			if table, ok := tomlSection(content, name); ok {
				m.dependencies[GroupDev] = uniqueNames(tomlKeys(table))
				break
			}
		}
	}
	return m, nil
}

type packageJSON struct {
	Version         json.RawMessage `json:"version"`
	Description     json.RawMessage `json:"description"`
	Dependencies    json.RawMessage `json:"dependencies"`
	DevDependencies json.RawMessage `json:"devDependencies"`
}

func parsePackageJSON(data []byte) (manifest, error) {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return manifest{}, err
	}
	core, err := objectKeys(pkg.Dependencies)
	if err != nil {
		return manifest{}, fmt.Errorf("dependencies: %w", err)
	}
	dev, err := objectKeys(pkg.DevDependencies)
	if err != nil {
		return manifest{}, fmt.Errorf("devDependencies: %w", err)
	}
	return manifest{
		version:     jsonString(pkg.Version),
		description: jsonString(pkg.Description),
		dependencies: map[string][]string{
			GroupCore: uniqueNames(core),
			GroupDev:  uniqueNames(dev),
		},
	}, nil
}

// jsonString returns raw as a trimmed string, or "" when it is not one.
func jsonString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// objectKeys returns the keys of a JSON object in document order. Anything
// other than an object yields no keys.
func objectKeys(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseCargo(data []byte) (manifest, error) {
	if !utf8.Valid(data) {
		return manifest{}, errors.New("Cargo.toml is not valid UTF-8")
	}
	content := string(data)
	m := manifest{dependencies: map[string][]string{}}

	for _, name := range []string{"package", "workspace.package"} {
		table, ok := tomlSection(content, name)
		if !ok {
			continue
		}
		if m.version == "" {
			m.version = tomlString(table, "version")
		}
		if m.description == "" {
			m.description = tomlString(table, "description")
		}
	}

	var core []string
	if table, ok := tomlSection(content, "dependencies"); ok {
		core = tomlKeys(table)
	}
	core = append(core, tomlSubtables(content, "dependencies")...)
	m.dependencies[GroupCore] = uniqueNames(core)

	var dev []string
	if table, ok := tomlSection(content, "dev-dependencies"); ok {
		dev = tomlKeys(table)
	}
	dev = append(dev, tomlSubtables(content, "dev-dependencies")...)
	m.dependencies[GroupDev] = uniqueNames(dev)

	return m, nil
}

var (
	paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
	ruleLineRe       = regexp.MustCompile(`^\s*([-*_=~^])(\s*[-*_=~^]){2,}\s*$`)
)

// readmeDescription returns the first paragraph of a README that is not a
// heading or a rule, trimmed and cut to 200 characters.
func readmeDescription(text string) string {
	for _, para := range paragraphSplitRe.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" || isHeading(para) {
			continue
		}
		if utf8.RuneCountInString(para) > maxDescriptionLen {
			para = string([]rune(para)[:maxDescriptionLen])
		}
		return para
	}
	return ""
}

// isHeading reports whether a paragraph opens with a Markdown heading, a
// rule line, or an underlined (setext or reStructuredText) title.
func isHeading(para string) bool {
	if strings.HasPrefix(para, "#") || strings.HasPrefix(para, "=") {
		return true
	}
	lines := strings.Split(para, "\n")
	if ruleLineRe.MatchString(lines[0]) {
		return true
	}
	return len(lines) >= 2 && ruleLineRe.MatchString(lines[1])
}
