package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

func scan(t *testing.T, opts Options) *ProjectStructure {
	t.Helper()
	result, err := New(opts).Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	checkInvariants(t, result)
	return result
}

func checkInvariants(t *testing.T, p *ProjectStructure) {
	t.Helper()
	if p.TotalFiles != len(p.Files) {
		t.Errorf("TotalFiles = %d, len(Files) = %d", p.TotalFiles, len(p.Files))
	}
	lines := 0
	for _, f := range p.Files {
		if f.LineCount != nil {
			lines += *f.LineCount
		}
		if filepath.IsAbs(f.Path) || strings.Contains(f.Path, `\`) || strings.HasPrefix(f.Path, "..") {
			t.Errorf("file path %q is not a clean relative path", f.Path)
		}
	}
	if p.TotalLines != lines {
		t.Errorf("TotalLines = %d, sum of line counts = %d", p.TotalLines, lines)
	}
	if !sort.SliceIsSorted(p.Files, func(i, j int) bool { return p.Files[i].Path < p.Files[j].Path }) {
		t.Error("files are not sorted by path")
	}
	if !sort.StringsAreSorted(p.Directories) {
		t.Error("directories are not sorted")
	}
}

func filePaths(p *ProjectStructure) []string {
	paths := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

func findFile(p *ProjectStructure, path string) (FileInfo, bool) {
	for _, f := range p.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileInfo{}, false
}

func TestScanner_ScanProject(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "main.py", "import app\n\napp.run()\n")
	writeFile(t, tmpDir, "app/__init__.py", "")
	writeFile(t, tmpDir, "app/server.py", "def run():\n    pass\n")
	writeFile(t, tmpDir, "docs/Guide.MD", "# Guide\n")
	writeFile(t, tmpDir, "Makefile", "test:\n\tpytest\n")

	result := scan(t, Options{Root: tmpDir})

	real, _ := filepath.EvalSymlinks(tmpDir)
	if result.Root != real {
		t.Errorf("Root = %q, want %q", result.Root, real)
	}
	if result.Name != filepath.Base(real) {
		t.Errorf("Name = %q, want %q", result.Name, filepath.Base(real))
	}

	wantFiles := []string{"Makefile", "app/__init__.py", "app/server.py", "docs/Guide.MD", "main.py"}
	if got := filePaths(result); !reflect.DeepEqual(got, wantFiles) {
		t.Errorf("files = %v, want %v", got, wantFiles)
	}
	wantDirs := []string{"app", "docs"}
	if !reflect.DeepEqual(result.Directories, wantDirs) {
		t.Errorf("directories = %v, want %v", result.Directories, wantDirs)
	}
	if result.TotalLines != 8 {
		t.Errorf("TotalLines = %d, want 8", result.TotalLines)
	}

	guide, _ := findFile(result, "docs/Guide.MD")
	if guide.Extension != ".md" {
		t.Errorf("extension = %q, want lowercase .md", guide.Extension)
	}
	makefile, _ := findFile(result, "Makefile")
	if makefile.Extension != "" {
		t.Errorf("Makefile extension = %q, want empty", makefile.Extension)
	}

	if result.PrimaryLanguage != "Python" {
		t.Errorf("PrimaryLanguage = %q, want Python", result.PrimaryLanguage)
	}
	if py, ok := result.Language("Python"); !ok || py.Files != 3 || py.Lines != 5 {
		t.Errorf("Python row = %+v, want 3 files / 5 lines", py)
	}
}

func TestScanner_DefaultExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "src/main.go", "package main\n")
	writeFile(t, tmpDir, ".git/config", "[core]\n")
	writeFile(t, tmpDir, "node_modules/left-pad/index.js", "module.exports = 1\n")
	writeFile(t, tmpDir, "src/__pycache__/mod.cpython-312.pyc", "junk")
	writeFile(t, tmpDir, "src/mod.pyc", "junk")

	result := scan(t, Options{Root: tmpDir})

	if got := filePaths(result); !reflect.DeepEqual(got, []string{"src/main.go"}) {
		t.Errorf("files = %v, want only src/main.go", got)
	}
	for _, d := range result.Directories {
		for _, excluded := range []string{".git", "node_modules", "__pycache__"} {
			if d == excluded || strings.HasPrefix(d, excluded+"/") || strings.HasSuffix(d, "/"+excluded) {
				t.Errorf("excluded directory %q recorded", d)
			}
		}
	}
	if result.Skipped[SkipExcluded] != 4 {
		t.Errorf("Skipped[excluded] = %d, want 4", result.Skipped[SkipExcluded])
	}
}

func TestScanner_CustomExcludePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "keep.go", "package keep\n")
	writeFile(t, tmpDir, "gen/out.go", "package gen\n")
	writeFile(t, tmpDir, "docs/img/logo.png", "png")
	writeFile(t, tmpDir, "docs/readme.txt", "hello\n")
	writeFile(t, tmpDir, "node_modules/x.js", "x\n")

	result := scan(t, Options{
		Root:            tmpDir,
		ExcludePatterns: []string{"gen", "docs/**/*.png"},
	})

	want := []string{"docs/readme.txt", "keep.go", "node_modules/x.js"}
	if got := filePaths(result); !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestScanner_Gitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, ".gitignore", "*.log\ntmp/\n")
	writeFile(t, tmpDir, "main.go", "package main\n")
	writeFile(t, tmpDir, "debug.log", "line\n")
	writeFile(t, tmpDir, "tmp/cache.go", "package tmp\n")

	tests := []struct {
		name    string
		respect bool
		want    []string
	}{
		{name: "ignored by default", respect: false, want: []string{".gitignore", "debug.log", "main.go", "tmp/cache.go"}},
		{name: "respected when enabled", respect: true, want: []string{".gitignore", "main.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scan(t, Options{Root: tmpDir, RespectGitignore: tt.respect})
			if got := filePaths(result); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("files = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanner_BinaryFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "notes.txt", "one\ntwo\nthree\n")
	writeFile(t, tmpDir, "image.bin", "GIF89a\x00\x01\n\n\n")

	result := scan(t, Options{Root: tmpDir})

	bin, ok := findFile(result, "image.bin")
	if !ok {
		t.Fatal("binary file missing from inventory")
	}
	if bin.LineCount != nil {
		t.Errorf("binary LineCount = %d, want nil", *bin.LineCount)
	}
	if !bin.Binary {
		t.Error("Binary = false, want true")
	}
	if result.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", result.TotalFiles)
	}
	if result.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3", result.TotalLines)
	}
}

func TestScanner_SymlinkCycle(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "pkg/mod.py", "x = 1\n")
	symlink(t, tmpDir, filepath.Join(tmpDir, "pkg", "loop"))

	result := scan(t, Options{Root: tmpDir})

	if got := filePaths(result); !reflect.DeepEqual(got, []string{"pkg/mod.py"}) {
		t.Errorf("files = %v, want [pkg/mod.py]", got)
	}
	if result.Skipped[SkipCycle] != 1 {
		t.Errorf("Skipped[cycle] = %d, want 1", result.Skipped[SkipCycle])
	}
}

func TestScanner_SymlinkedDirectoryVisitedOnce(t *testing.T) {
	outside := t.TempDir()
	writeFile(t, outside, "shared.go", "package shared\n")

	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "main.go", "package main\n")
	symlink(t, outside, filepath.Join(tmpDir, "a"))
	symlink(t, outside, filepath.Join(tmpDir, "b"))

	result := scan(t, Options{Root: tmpDir})

	want := []string{"a/shared.go", "main.go"}
	if got := filePaths(result); !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(result.Directories, []string{"a"}) {
		t.Errorf("directories = %v, want [a]", result.Directories)
	}
}

func TestScanner_BrokenSymlink(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "main.go", "package main\n")
	symlink(t, filepath.Join(tmpDir, "missing"), filepath.Join(tmpDir, "dangling"))

	result := scan(t, Options{Root: tmpDir})

	if got := filePaths(result); !reflect.DeepEqual(got, []string{"main.go"}) {
		t.Errorf("files = %v, want [main.go]", got)
	}
	if result.Skipped[SkipStatFailed] != 1 {
		t.Errorf("Skipped[stat_failed] = %d, want 1", result.Skipped[SkipStatFailed])
	}
}

func TestScanner_UnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "ok/a.go", "package ok\n")
	writeFile(t, tmpDir, "locked/b.go", "package locked\n")
	locked := filepath.Join(tmpDir, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	result := scan(t, Options{Root: tmpDir})

	if got := filePaths(result); !reflect.DeepEqual(got, []string{"ok/a.go"}) {
		t.Errorf("files = %v, want [ok/a.go]", got)
	}
	if result.Skipped[SkipDirUnreadable] != 1 {
		t.Errorf("Skipped[dir_unreadable] = %d, want 1", result.Skipped[SkipDirUnreadable])
	}
}

func TestScanner_OversizedFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "big.txt", strings.Repeat("a", 600*1024))
	writeFile(t, tmpDir, "small.txt", strings.Repeat("a\n", 1024))

	result := scan(t, Options{Root: tmpDir, MaxFileSizeKB: 500})

	if got := filePaths(result); !reflect.DeepEqual(got, []string{"small.txt"}) {
		t.Errorf("files = %v, want [small.txt]", got)
	}
	if result.Skipped[SkipOversized] != 1 {
		t.Errorf("Skipped[oversized] = %d, want 1", result.Skipped[SkipOversized])
	}
}

func TestScanner_MaxFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, tmpDir, fmt.Sprintf("file%02d.txt", i), "x\n")
	}

	result := scan(t, Options{Root: tmpDir, MaxFiles: 10})

	if len(result.Files) != 10 {
		t.Fatalf("len(Files) = %d, want 10", len(result.Files))
	}
	if result.Files[9].Path != "file09.txt" {
		t.Errorf("last file = %q, want file09.txt", result.Files[9].Path)
	}
	if !result.Truncated {
		t.Error("Truncated = false, want true")
	}

	full := scan(t, Options{Root: tmpDir, MaxFiles: 20})
	if full.Truncated {
		t.Error("Truncated = true when the limit was not exceeded")
	}
}

func TestScanner_MaxFilesStopsDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.py", "x\n")
	writeFile(t, tmpDir, "y/deep/c.py", "x\n")
	writeFile(t, tmpDir, "z/b.py", "x\n")

	result := scan(t, Options{Root: tmpDir, MaxFiles: 1})

	if got := filePaths(result); !reflect.DeepEqual(got, []string{"a.py"}) {
		t.Errorf("files = %v, want [a.py]", got)
	}
	if len(result.Directories) != 0 {
		t.Errorf("Directories = %v, want none recorded after the limit", result.Directories)
	}
	if !result.Truncated {
		t.Error("Truncated = false, want true")
	}
}

func TestScanner_MaxFilesIgnoresExcludedRemainder(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.py", "x\n")
	writeFile(t, tmpDir, "b.pyc", "x\n")

	result := scan(t, Options{Root: tmpDir, MaxFiles: 1})

	if got := filePaths(result); !reflect.DeepEqual(got, []string{"a.py"}) {
		t.Errorf("files = %v, want [a.py]", got)
	}
	if result.Truncated {
		t.Error("Truncated = true, but only an excluded file remained")
	}
	if result.Skipped[SkipExcluded] != 1 {
		t.Errorf("Skipped[excluded] = %d, want 1", result.Skipped[SkipExcluded])
	}
}

func TestScanner_PrimaryLanguageIgnoresMarkup(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.py", "b.py", "c.html", "d.html", "e.css"} {
		writeFile(t, tmpDir, name, "x\n")
	}

	result := scan(t, Options{Root: tmpDir})

	if result.PrimaryLanguage != "Python" {
		t.Errorf("PrimaryLanguage = %q, want Python", result.PrimaryLanguage)
	}
	if result.Languages[0].Name != "HTML" || result.Languages[0].Files != 2 {
		t.Errorf("top language = %+v, want HTML with 2 files", result.Languages[0])
	}
}

func TestScanner_Deterministic(t *testing.T) {
	tmpDir := t.TempDir()
	for _, rel := range []string{"z.go", "a/b/c.go", "a/a.go", "m/n.rs", "B.go", "a-b.go"} {
		writeFile(t, tmpDir, rel, "line\n")
	}

	s := New(Options{Root: tmpDir})
	first, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated scans differ")
	}
}

func TestScanner_RootErrors(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "file.txt", "x\n")

	tests := []struct {
		name string
		root string
	}{
		{name: "missing", root: filepath.Join(tmpDir, "nope")},
		{name: "regular file", root: filepath.Join(tmpDir, "file.txt")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New(Options{Root: tt.root}).Scan()
			if err == nil {
				t.Fatal("expected error")
			}
			if result != nil {
				t.Error("expected nil result on error")
			}
			var scanErr *ScanError
			if !errors.As(err, &scanErr) {
				t.Fatalf("error type = %T, want *ScanError", err)
			}
			if !errors.Is(err, ErrRootNotDirectory) {
				t.Error("errors.Is(err, ErrRootNotDirectory) = false")
			}
		})
	}
}

type recordingLogger struct {
	warnings []string
	debugs   []string
}

func (r *recordingLogger) Debug(msg string, _ map[string]interface{}) {
	r.debugs = append(r.debugs, msg)
}
func (r *recordingLogger) Info(string, map[string]interface{}) {}
func (r *recordingLogger) Warning(msg string, _ map[string]interface{}) {
	r.warnings = append(r.warnings, msg)
}

func TestScanner_LogsLimits(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.txt", "x\n")
	writeFile(t, tmpDir, "b.txt", "x\n")
	writeFile(t, tmpDir, "node_modules/c.js", "x\n")

	logger := &recordingLogger{}
	if _, err := New(Options{Root: tmpDir, MaxFiles: 1}, WithLogger(logger)).Scan(); err != nil {
		t.Fatal(err)
	}

	if len(logger.warnings) != 1 || !strings.Contains(logger.warnings[0], "max file limit") {
		t.Errorf("warnings = %v, want one max file limit warning", logger.warnings)
	}
}
