// Package runtime provides propagation-runtime linking for rewritten code.
//
// Rewritten programs import the spawn facade, so the temporary build
// workspace needs a go.mod that can resolve it. In development (running the
// tool from a checkout) that means a replace directive pointing at the
// checkout; for installed use the published module resolves normally.
package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// RuntimeModulePath is the module the rewritten code must be able to
// resolve.
const RuntimeModulePath = "github.com/kolkov/ctxspawn"

// RuntimePackagePath returns the import path rewritten files reference.
//
// Returns: "github.com/kolkov/ctxspawn/spawn"
func RuntimePackagePath() string {
	return RuntimeModulePath + "/spawn"
}

// ValidateRuntimeAvailable checks that the propagation runtime can be
// resolved from a workspace build.
//
// In development mode (a checkout containing internal/spawn/api) the
// runtime is linked via a replace directive; otherwise the published module
// is assumed resolvable.
func ValidateRuntimeAvailable() error {
	if _, err := findProjectRoot(); err == nil {
		return nil
	}
	// Not in a checkout: the published module path resolves through the
	// module proxy like any other dependency.
	return nil
}

// WriteWorkspaceModFile writes the go.mod for a temporary build workspace.
//
// The file requires the propagation runtime and, when running from a
// checkout, replaces it with the local path. Replace directives from the
// instrumented project's own go.mod are carried over with relative paths
// made absolute, since the workspace lives elsewhere.
//
// Parameters:
//   - workspaceDir: Temporary directory holding the rewritten sources
//   - sourceDir: Directory of the original sources (to find their go.mod)
//
// Returns:
//   - Path to the written go.mod
//   - Error if the file cannot be assembled or written
func WriteWorkspaceModFile(workspaceDir, sourceDir string) (string, error) {
	f := new(modfile.File)
	if err := f.AddModuleStmt("ctxspawn.invalid/workspace"); err != nil {
		return "", fmt.Errorf("failed to assemble go.mod: %w", err)
	}
	if err := f.AddGoStmt("1.24"); err != nil {
		return "", fmt.Errorf("failed to assemble go.mod: %w", err)
	}
	if err := f.AddRequire(RuntimeModulePath, "v0.1.0"); err != nil {
		return "", fmt.Errorf("failed to assemble go.mod: %w", err)
	}

	// Development checkout: route the require at the local tree.
	if projectRoot, err := findProjectRoot(); err == nil {
		if err := f.AddReplace(RuntimeModulePath, "", projectRoot, ""); err != nil {
			return "", fmt.Errorf("failed to add replace directive: %w", err)
		}
	}

	// Carry over the instrumented project's replace directives, made
	// workspace-relative-safe.
	if sourceDir != "" {
		if orig := findOriginalGoMod(sourceDir); orig != "" {
			if err := copyReplaceDirectives(f, orig); err != nil {
				return "", err
			}
		}
	}

	data, err := f.Format()
	if err != nil {
		return "", fmt.Errorf("failed to format go.mod: %w", err)
	}

	modPath := filepath.Join(workspaceDir, "go.mod")
	if err := os.WriteFile(modPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write go.mod: %w", err)
	}
	return modPath, nil
}

// copyReplaceDirectives parses the original go.mod and adds its replace
// directives to f, absolutizing local filesystem targets.
func copyReplaceDirectives(f *modfile.File, goModPath string) error {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", goModPath, err)
	}
	orig, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", goModPath, err)
	}

	goModDir := filepath.Dir(goModPath)
	for _, rep := range orig.Replace {
		newPath := rep.New.Path
		// A versionless target is a filesystem path; make it absolute so
		// it still resolves from the workspace.
		if rep.New.Version == "" && !filepath.IsAbs(newPath) {
			abs, absErr := filepath.Abs(filepath.Join(goModDir, newPath))
			if absErr == nil {
				newPath = abs
			}
		}
		if err := f.AddReplace(rep.Old.Path, rep.Old.Version, newPath, rep.New.Version); err != nil {
			return fmt.Errorf("failed to copy replace %s: %w", rep.Old.Path, err)
		}
	}
	return nil
}

// findProjectRoot finds the root of a ctxspawn checkout.
//
// Walks up from the working directory looking for our specific runtime
// marker (internal/spawn/api). A bare go.mod is not enough — that would
// match the instrumented project itself.
func findProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		marker := filepath.Join(dir, "internal", "spawn", "api")
		if _, err := os.Stat(marker); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Fall back to locations near the executable.
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		for _, candidate := range []string{exeDir, filepath.Dir(exeDir)} {
			marker := filepath.Join(candidate, "internal", "spawn", "api")
			if _, err := os.Stat(marker); err == nil {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("could not find ctxspawn project root")
}

// findOriginalGoMod walks up from startDir looking for the instrumented
// project's go.mod. Returns "" when none exists up to the filesystem root.
func findOriginalGoMod(startDir string) string {
	dir := startDir
	for {
		modPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(modPath); err == nil {
			return modPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
