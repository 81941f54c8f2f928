package scanner

import (
	"sort"
)

// languageMapping maps file extensions to language names.
var languageMapping = map[string]string{
	".go":       "Go",
	".py":       "Python",
	".pyi":      "Python",
	".js":       "JavaScript",
	".jsx":      "JavaScript",
	".mjs":      "JavaScript",
	".cjs":      "JavaScript",
	".ts":       "TypeScript",
	".tsx":      "TypeScript",
	".java":     "Java",
	".kt":       "Kotlin",
	".kts":      "Kotlin",
	".rs":       "Rust",
	".rb":       "Ruby",
	".php":      "PHP",
	".c":        "C",
	".h":        "C",
	".cpp":      "C++",
	".cc":       "C++",
	".cxx":      "C++",
	".hpp":      "C++",
	".cs":       "C#",
	".swift":    "Swift",
	".m":        "Objective-C",
	".scala":    "Scala",
	".clj":      "Clojure",
	".ex":       "Elixir",
	".exs":      "Elixir",
	".erl":      "Erlang",
	".hs":       "Haskell",
	".lua":      "Lua",
	".r":        "R",
	".jl":       "Julia",
	".pl":       "Perl",
	".dart":     "Dart",
	".zig":      "Zig",
	".sh":       "Shell",
	".bash":     "Shell",
	".zsh":      "Shell",
	".ps1":      "PowerShell",
	".sql":      "SQL",
	".vue":      "Vue",
	".svelte":   "Svelte",
	".html":     "HTML",
	".htm":      "HTML",
	".css":      "CSS",
	".scss":     "SCSS",
	".sass":     "SCSS",
	".less":     "Less",
	".json":     "JSON",
	".yaml":     "YAML",
	".yml":      "YAML",
	".toml":     "TOML",
	".xml":      "XML",
	".md":       "Markdown",
	".markdown": "Markdown",
	".rst":      "reStructuredText",
}

// configLanguages never qualify as the primary language.
var configLanguages = map[string]bool{
	"HTML":             true,
	"CSS":              true,
	"SCSS":             true,
	"Less":             true,
	"JSON":             true,
	"YAML":             true,
	"TOML":             true,
	"XML":              true,
	"Markdown":         true,
	"reStructuredText": true,
}

// LanguageFor returns the language for a lowercased extension, if known.
func LanguageFor(ext string) (string, bool) {
	lang, ok := languageMapping[ext]
	return lang, ok
}

// IsConfigLanguage reports whether lang is a markup or configuration language.
func IsConfigLanguage(lang string) bool {
	return configLanguages[lang]
}

// detectLanguages tallies files per language. Unmapped extensions are
// ignored. Rows are sorted by file count descending, ties by name.
func detectLanguages(files []FileInfo) []LanguageCount {
	index := make(map[string]int)
	languages := make([]LanguageCount, 0)

	for _, f := range files {
		lang, ok := languageMapping[f.Extension]
		if !ok {
			continue
		}
		i, seen := index[lang]
		if !seen {
			i = len(languages)
			index[lang] = i
			languages = append(languages, LanguageCount{Name: lang})
		}
		languages[i].Files++
		languages[i].Lines += f.Lines()
	}

	sort.SliceStable(languages, func(i, j int) bool {
		if languages[i].Files != languages[j].Files {
			return languages[i].Files > languages[j].Files
		}
		return languages[i].Name < languages[j].Name
	})

	return languages
}

// primaryLanguage returns the first non-config language of a sorted
// histogram, or "" when none qualifies.
func primaryLanguage(languages []LanguageCount) string {
	for _, lang := range languages {
		if !configLanguages[lang.Name] {
			return lang.Name
		}
	}
	return ""
}
