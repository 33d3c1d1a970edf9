package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/mod/modfile"
)

// TestRuntimePackagePath verifies the import path rewritten files use.
func TestRuntimePackagePath(t *testing.T) {
	want := "github.com/kolkov/ctxspawn/spawn"
	if got := RuntimePackagePath(); got != want {
		t.Errorf("RuntimePackagePath() = %q, want %q", got, want)
	}
}

// TestWriteWorkspaceModFile verifies the generated go.mod parses and wires
// in the propagation runtime.
func TestWriteWorkspaceModFile(t *testing.T) {
	workspaceDir := t.TempDir()

	modPath, err := WriteWorkspaceModFile(workspaceDir, "")
	if err != nil {
		t.Fatalf("WriteWorkspaceModFile() error: %v", err)
	}
	if filepath.Dir(modPath) != workspaceDir {
		t.Errorf("go.mod written to %q, want inside %q", modPath, workspaceDir)
	}

	data, err := os.ReadFile(modPath)
	if err != nil {
		t.Fatalf("reading generated go.mod: %v", err)
	}
	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		t.Fatalf("generated go.mod does not parse: %v\n%s", err, data)
	}

	if f.Module == nil || f.Module.Mod.Path != "ctxspawn.invalid/workspace" {
		t.Errorf("module path = %v, want ctxspawn.invalid/workspace", f.Module)
	}

	foundRequire := false
	for _, r := range f.Require {
		if r.Mod.Path == RuntimeModulePath {
			foundRequire = true
		}
	}
	if !foundRequire {
		t.Errorf("generated go.mod missing require for %s:\n%s", RuntimeModulePath, data)
	}
}

// TestWriteWorkspaceModFileCopiesReplaces verifies replace directives from
// the instrumented project's go.mod carry over with absolute local paths.
func TestWriteWorkspaceModFileCopiesReplaces(t *testing.T) {
	sourceDir := t.TempDir()
	workspaceDir := t.TempDir()

	origMod := `module example.com/app

go 1.24

require example.com/dep v1.0.0

replace example.com/dep => ../dep
`
	if err := os.WriteFile(filepath.Join(sourceDir, "go.mod"), []byte(origMod), 0o644); err != nil {
		t.Fatal(err)
	}

	modPath, err := WriteWorkspaceModFile(workspaceDir, sourceDir)
	if err != nil {
		t.Fatalf("WriteWorkspaceModFile() error: %v", err)
	}
	data, err := os.ReadFile(modPath)
	if err != nil {
		t.Fatal(err)
	}
	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		t.Fatalf("generated go.mod does not parse: %v\n%s", err, data)
	}

	found := false
	for _, rep := range f.Replace {
		if rep.Old.Path != "example.com/dep" {
			continue
		}
		found = true
		if !filepath.IsAbs(rep.New.Path) {
			t.Errorf("copied replace target %q is not absolute", rep.New.Path)
		}
		if !strings.HasSuffix(rep.New.Path, "dep") {
			t.Errorf("copied replace target %q lost its tail", rep.New.Path)
		}
	}
	if !found {
		t.Errorf("replace for example.com/dep not carried over:\n%s", data)
	}
}

// TestFindOriginalGoMod verifies the upward go.mod search.
func TestFindOriginalGoMod(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	modPath := filepath.Join(root, "go.mod")
	if err := os.WriteFile(modPath, []byte("module example.com/x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := findOriginalGoMod(nested); got != modPath {
		t.Errorf("findOriginalGoMod(%q) = %q, want %q", nested, got, modPath)
	}
}

// TestFindOriginalGoModMissing verifies the empty result when no go.mod
// exists above the start directory.
func TestFindOriginalGoModMissing(t *testing.T) {
	// TempDir roots live under the system temp tree, which normally carries
	// no go.mod of its own; an unlucky environment would need one at /tmp
	// or / for this to misfire.
	if got := findOriginalGoMod(t.TempDir()); got != "" {
		t.Skipf("unexpected go.mod above temp dir: %s", got)
	}
}
