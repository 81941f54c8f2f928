package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/andywolf/forge/internal/scanner"
)

// project writes files under a temp dir and returns a minimal inventory of
// them, as a scan would report.
func project(t *testing.T, files map[string]string, dirs []string) *scanner.ProjectStructure {
	t.Helper()
	root := t.TempDir()
	p := &scanner.ProjectStructure{Root: root, Directories: dirs}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		p.Files = append(p.Files, scanner.FileInfo{Path: name})
	}
	return p
}

var monorepoDirs = []string{
	"apps", "apps/web", "apps/web/src",
	"packages", "packages/core", "packages/legacy", "packages/shared",
	"tools",
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		wantKind    Kind
		wantMembers []string
	}{
		{
			name: "pnpm",
			files: map[string]string{
				"pnpm-workspace.yaml": "packages:\n  - 'packages/*'\n  - 'apps/*'\n  - '!packages/legacy'\n",
			},
			wantKind:    KindPnpm,
			wantMembers: []string{"apps/web", "packages/core", "packages/shared"},
		},
		{
			name: "npm array",
			files: map[string]string{
				"package.json": `{"name": "mono", "workspaces": ["packages/*"]}`,
			},
			wantKind:    KindNpm,
			wantMembers: []string{"packages/core", "packages/legacy", "packages/shared"},
		},
		{
			name: "npm object",
			files: map[string]string{
				"package.json": `{"workspaces": {"packages": ["./apps/web/"]}}`,
			},
			wantKind:    KindNpm,
			wantMembers: []string{"apps/web"},
		},
		{
			name: "pnpm wins over package.json",
			files: map[string]string{
				"pnpm-workspace.yaml": "packages:\n  - apps/*\n",
				"package.json":        `{"workspaces": ["packages/*"]}`,
			},
			wantKind:    KindPnpm,
			wantMembers: []string{"apps/web"},
		},
		{
			name: "go.work",
			files: map[string]string{
				"go.work": "go 1.22\n\nuse (\n\t.\n\t./tools // codegen\n\t./packages/core\n)\n",
			},
			wantKind:    KindGo,
			wantMembers: []string{"packages/core", "tools"},
		},
		{
			name: "go.work single line",
			files: map[string]string{
				"go.work": "go 1.22\nuse ./tools\n",
			},
			wantKind:    KindGo,
			wantMembers: []string{"tools"},
		},
		{
			name: "package.json without workspaces falls back to go.work",
			files: map[string]string{
				"package.json": `{"name": "web"}`,
				"go.work":      "use ./tools\n",
			},
			wantKind:    KindGo,
			wantMembers: []string{"tools"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := Detect(project(t, tt.files, monorepoDirs))
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if ws == nil {
				t.Fatal("Detect() = nil, want workspace")
			}
			if ws.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", ws.Kind, tt.wantKind)
			}
			if !reflect.DeepEqual(ws.Members, tt.wantMembers) {
				t.Errorf("Members = %v, want %v", ws.Members, tt.wantMembers)
			}
		})
	}
}

func TestDetect_None(t *testing.T) {
	p := project(t, map[string]string{"package.json": `{"name": "app"}`}, monorepoDirs)
	ws, err := Detect(p)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if ws != nil {
		t.Errorf("Detect() = %+v, want nil", ws)
	}
}

func TestDetect_IgnoresNestedManifests(t *testing.T) {
	p := project(t, nil, monorepoDirs)
	p.Files = append(p.Files, scanner.FileInfo{Path: "apps/web/pnpm-workspace.yaml"})

	ws, err := Detect(p)
	if err != nil || ws != nil {
		t.Errorf("Detect() = %v, %v, want nil, nil", ws, err)
	}
}

func TestDetect_MalformedPnpm(t *testing.T) {
	p := project(t, map[string]string{"pnpm-workspace.yaml": "packages: [unclosed"}, monorepoDirs)
	if _, err := Detect(p); err == nil {
		t.Error("Detect() error = nil, want parse error")
	}
}

func TestNormalizePackagePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"packages/core", "packages/core"},
		{"./packages/core", "packages/core"},
		{"packages/core/", "packages/core"},
		{"./packages/core/", "packages/core"},
		{"core", "core"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizePackagePath(tt.input); got != tt.want {
				t.Errorf("NormalizePackagePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
