// build.go implements the 'ctxspawn build' command.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kolkov/ctxspawn/cmd/ctxspawn/instrument"
	"github.com/kolkov/ctxspawn/cmd/ctxspawn/runtime"
)

// buildCommand implements the 'ctxspawn build' command.
//
// This command rewrites Go source files and builds them with context
// propagation. It acts as a drop-in replacement for 'go build', supporting
// the standard flags.
//
// Flow:
//  1. Parse arguments (source files + go build flags)
//  2. Create temporary workspace
//  3. Rewrite source files (redirect go statements through the shim)
//  4. Write workspace go.mod wiring in the propagation runtime
//  5. Call 'go build' on the rewritten code
//  6. Cleanup temporary files
//
// Example:
//
//	ctxspawn build main.go
//	ctxspawn build -o myapp main.go helper.go
//	ctxspawn build -ldflags="-s -w" .
func buildCommand(args []string) {
	config, err := parseBuildArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runtime.ValidateRuntimeAvailable(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: propagation runtime not found\n%v\n", err)
		fmt.Fprintf(os.Stderr, "\nPlease ensure the runtime is installed:\n")
		fmt.Fprintf(os.Stderr, "  go get %s\n", runtime.RuntimePackagePath())
		os.Exit(1)
	}

	workspace, err := createWorkspace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating workspace: %v\n", err)
		os.Exit(1)
	}
	defer workspace.cleanup()

	if err := rewriteSources(config, workspace); err != nil {
		fmt.Fprintf(os.Stderr, "Error rewriting sources: %v\n", err)
		os.Exit(1)
	}

	if err := workspace.setupRuntimeLinking(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up runtime: %v\n", err)
		os.Exit(1)
	}

	if err := workspace.build(config); err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}

	if config.outputFile != "" {
		color.Green("Built successfully: %s", config.outputFile)
	}
}

// buildConfig holds configuration for the build command.
type buildConfig struct {
	// Source files to rewrite and build
	sourceFiles []string

	// Output binary name (from -o flag)
	outputFile string

	// Additional go build flags
	buildFlags []string

	// Working directory for build
	workDir string

	// Verbose output flag (-v)
	verbose bool

	// log is the tool's structured logger; Nop unless verbose.
	log *zap.Logger
}

// parseBuildArgs parses command-line arguments for 'ctxspawn build'.
//
// It separates:
//   - Source files (.go files or directories)
//   - Output file (-o flag)
//   - Go build flags (everything else, passed through)
func parseBuildArgs(args []string) (*buildConfig, error) {
	config := &buildConfig{
		sourceFiles: []string{},
		buildFlags:  []string{},
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	config.workDir = cwd

	expectingValue := false
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// Previous flag expects a value; this is it even if it starts
		// with a dash. Example: -ldflags "-s -w"
		if expectingValue {
			config.buildFlags = append(config.buildFlags, arg)
			expectingValue = false
			continue
		}

		if arg == "-o" {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-o flag requires an argument")
			}
			i++
			config.outputFile = args[i]
			continue
		}
		if strings.HasPrefix(arg, "-o=") {
			config.outputFile = strings.TrimPrefix(arg, "-o=")
			continue
		}
		if arg == "-v" {
			config.verbose = true
			continue
		}

		if strings.HasPrefix(arg, "-") {
			config.buildFlags = append(config.buildFlags, arg)
			expectingValue = needsValue(arg)
			continue
		}

		// No dash prefix: a source file, directory, or package path.
		config.sourceFiles = append(config.sourceFiles, arg)
	}

	// Default: build current directory if no sources specified.
	if len(config.sourceFiles) == 0 {
		config.sourceFiles = []string{"."}
	}

	config.log = zap.NewNop()
	if config.verbose {
		config.log = zap.Must(zap.NewDevelopment())
	}

	return config, nil
}

// needsValue returns true if the flag expects a following value.
func needsValue(flag string) bool {
	valueFlags := []string{
		"-ldflags", "-gcflags", "-asmflags", "-gccgoflags",
		"-tags", "-installsuffix", "-buildmode", "-mod",
		"-modfile", "-overlay", "-pkgdir", "-toolexec",
	}
	for _, vf := range valueFlags {
		if strings.HasPrefix(flag, vf+"=") {
			return false
		}
		if flag == vf {
			return true
		}
	}
	return false
}

// workspace represents a temporary workspace for rewritten code.
type workspace struct {
	// Root directory of workspace
	dir string

	// Source directory (where rewritten .go files go)
	srcDir string
}

// createWorkspace creates a temporary workspace for building rewritten code.
func createWorkspace() (*workspace, error) {
	dir, err := os.MkdirTemp("", "ctxspawn-build-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to create src directory: %w", err)
	}

	return &workspace{dir: dir, srcDir: srcDir}, nil
}

// cleanup removes the temporary workspace.
func (w *workspace) cleanup() {
	if w.dir != "" {
		_ = os.RemoveAll(w.dir) // best effort
	}
}

// setupRuntimeLinking writes the workspace go.mod and tidies it.
func (w *workspace) setupRuntimeLinking(config *buildConfig) error {
	sourceDir := config.workDir
	if _, err := runtime.WriteWorkspaceModFile(w.srcDir, sourceDir); err != nil {
		return fmt.Errorf("failed to write workspace go.mod: %w", err)
	}

	tidyCmd := exec.Command("go", "mod", "tidy")
	tidyCmd.Dir = w.srcDir
	tidyCmd.Stdout = os.Stdout
	tidyCmd.Stderr = os.Stderr
	if err := tidyCmd.Run(); err != nil {
		return fmt.Errorf("failed to tidy go.mod: %w", err)
	}
	return nil
}

// build runs 'go build' on the rewritten code in the workspace.
func (w *workspace) build(config *buildConfig) error {
	args := []string{"build"}

	if config.outputFile != "" {
		outputPath := config.outputFile
		if !filepath.IsAbs(outputPath) {
			outputPath = filepath.Join(config.workDir, outputPath)
		}
		args = append(args, "-o", outputPath)
	}

	args = append(args, config.buildFlags...)
	args = append(args, ".")

	cmd := exec.Command("go", args...)
	cmd.Dir = w.srcDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// rewriteSources rewrites all source files concurrently and writes them to
// the workspace.
//
// Files are independent, so rewriting fans out across an errgroup; the
// first failure cancels the batch.
func rewriteSources(config *buildConfig, workspace *workspace) error {
	goFiles, err := collectGoFiles(config.sourceFiles, config.workDir)
	if err != nil {
		return fmt.Errorf("failed to collect source files: %w", err)
	}
	if len(goFiles) == 0 {
		return fmt.Errorf("no Go source files found")
	}

	var (
		mu    sync.Mutex
		total instrument.Stats
	)

	var g errgroup.Group
	g.SetLimit(4)
	for _, srcPath := range goFiles {
		g.Go(func() error {
			result, err := instrument.RewriteFile(srcPath, nil)
			if err != nil {
				return fmt.Errorf("failed to rewrite %s: %w", srcPath, err)
			}

			// Flatten directory structure: workspace builds one package.
			outPath := filepath.Join(workspace.srcDir, filepath.Base(srcPath))
			if err := os.WriteFile(outPath, []byte(result.Code), 0o644); err != nil {
				return fmt.Errorf("failed to write rewritten file %s: %w", outPath, err)
			}

			config.log.Debug("rewrote file",
				zap.String("src", srcPath),
				zap.String("out", outPath),
				zap.Int("redirected", result.Stats.GoStmtsRewritten),
				zap.Int("skipped", result.Stats.GoStmtsSkipped))

			mu.Lock()
			total.GoStmtsRewritten += result.Stats.GoStmtsRewritten
			total.GoStmtsSkipped += result.Stats.GoStmtsSkipped
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Rewrote %d files\n", len(goFiles))
	if config.verbose {
		color.Cyan("  - %d go statements redirected", total.GoStmtsRewritten)
		if total.GoStmtsSkipped > 0 {
			color.Yellow("  - %d skipped (builtin callee)", total.GoStmtsSkipped)
		}
	}
	return nil
}

// collectGoFiles finds all .go files from the given sources.
//
// Sources can be:
//   - .go files directly
//   - directories (scanned non-recursively for .go files)
//   - "." for current directory
//
// Test files are excluded from builds.
func collectGoFiles(sources []string, workDir string) ([]string, error) {
	var goFiles []string

	for _, src := range sources {
		srcPath := src
		if !filepath.IsAbs(srcPath) {
			srcPath = filepath.Join(workDir, src)
		}

		info, err := os.Stat(srcPath)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", src, err)
		}

		if !info.IsDir() {
			if strings.HasSuffix(srcPath, ".go") {
				goFiles = append(goFiles, srcPath)
			}
			continue
		}

		entries, err := os.ReadDir(srcPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", srcPath, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
				goFiles = append(goFiles, filepath.Join(srcPath, name))
			}
		}
	}

	return goFiles, nil
}
