// run.go implements the 'ctxspawn run' command.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// runCommand implements the 'ctxspawn run' command.
//
// This command rewrites Go source files, builds them to a temporary binary,
// and immediately executes it. It acts as a drop-in replacement for
// 'go run'.
//
// Flow:
//  1. Parse arguments (source files + program arguments)
//  2. Build rewritten binary to temp location
//  3. Execute binary with program arguments, forwarding std streams
//  4. Return the program's exit code
//
// Example:
//
//	ctxspawn run main.go
//	ctxspawn run main.go arg1 arg2
func runCommand(args []string) {
	config, programArgs, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tempBinary, err := buildTemporary(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.Remove(tempBinary) }() // best effort

	os.Exit(executeBinary(tempBinary, programArgs))
}

// parseRunArgs separates source files from program arguments.
//
// Supported form:
//
//	ctxspawn run [build flags] file.go [file2.go ...] [arguments...]
//
// Build flags come before source files; everything after the source files
// belongs to the program.
func parseRunArgs(args []string) (*buildConfig, []string, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("no source files specified")
	}

	var (
		sourceFiles []string
		programArgs []string
		buildFlags  []string
	)

	sawGoFile := false
	inProgramArgs := false
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if inProgramArgs {
			programArgs = append(programArgs, arg)
			continue
		}

		if filepath.Ext(arg) == ".go" {
			sourceFiles = append(sourceFiles, arg)
			sawGoFile = true
			continue
		}

		// First non-.go token after the sources starts the program args.
		if sawGoFile {
			inProgramArgs = true
			programArgs = append(programArgs, arg)
			continue
		}

		buildFlags = append(buildFlags, arg)
		if needsValue(arg) && i+1 < len(args) {
			i++
			buildFlags = append(buildFlags, args[i])
		}
	}

	if len(sourceFiles) == 0 {
		return nil, nil, fmt.Errorf("no Go source files specified")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	config := &buildConfig{
		sourceFiles: sourceFiles,
		buildFlags:  buildFlags,
		workDir:     cwd,
		log:         zap.NewNop(),
	}
	return config, programArgs, nil
}

// buildTemporary builds the rewritten code to a temporary binary and
// returns its path.
func buildTemporary(config *buildConfig) (string, error) {
	tempBinary, err := os.CreateTemp("", "ctxspawn-run-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempBinary.Name()
	_ = tempBinary.Close()

	config.outputFile = tempPath

	workspace, err := createWorkspace()
	if err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}
	defer workspace.cleanup()

	if err := rewriteSources(config, workspace); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to rewrite sources: %w", err)
	}
	if err := workspace.setupRuntimeLinking(config); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to setup runtime: %w", err)
	}
	if err := workspace.build(config); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("build failed: %w", err)
	}

	return tempPath, nil
}

// executeBinary runs the rewritten binary, forwarding std streams, and
// returns its exit code.
func executeBinary(binaryPath string, args []string) int {
	cmd := exec.Command(binaryPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing binary: %v\n", err)
		return 1
	}
	return 0
}
