package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestParseBuildArgs tests argument separation for the build command.
func TestParseBuildArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantSources []string
		wantOutput  string
		wantFlags   []string
		wantVerbose bool
	}{
		{
			name:        "single file",
			args:        []string{"main.go"},
			wantSources: []string{"main.go"},
		},
		{
			name:        "output flag",
			args:        []string{"-o", "myapp", "main.go"},
			wantSources: []string{"main.go"},
			wantOutput:  "myapp",
		},
		{
			name:        "output flag equals form",
			args:        []string{"-o=myapp", "main.go"},
			wantSources: []string{"main.go"},
			wantOutput:  "myapp",
		},
		{
			name:        "verbose",
			args:        []string{"-v", "main.go"},
			wantSources: []string{"main.go"},
			wantVerbose: true,
		},
		{
			name:        "ldflags with value",
			args:        []string{"-ldflags", "-s -w", "main.go"},
			wantSources: []string{"main.go"},
			wantFlags:   []string{"-ldflags", "-s -w"},
		},
		{
			name:        "defaults to current directory",
			args:        []string{},
			wantSources: []string{"."},
		},
		{
			name:        "multiple files",
			args:        []string{"a.go", "b.go"},
			wantSources: []string{"a.go", "b.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := parseBuildArgs(tt.args)
			if err != nil {
				t.Fatalf("parseBuildArgs() error: %v", err)
			}

			if len(config.sourceFiles) != len(tt.wantSources) {
				t.Fatalf("sourceFiles = %v, want %v", config.sourceFiles, tt.wantSources)
			}
			for i, want := range tt.wantSources {
				if config.sourceFiles[i] != want {
					t.Errorf("sourceFiles[%d] = %q, want %q", i, config.sourceFiles[i], want)
				}
			}
			if config.outputFile != tt.wantOutput {
				t.Errorf("outputFile = %q, want %q", config.outputFile, tt.wantOutput)
			}
			if config.verbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", config.verbose, tt.wantVerbose)
			}
			if len(tt.wantFlags) > 0 {
				if len(config.buildFlags) != len(tt.wantFlags) {
					t.Fatalf("buildFlags = %v, want %v", config.buildFlags, tt.wantFlags)
				}
				for i, want := range tt.wantFlags {
					if config.buildFlags[i] != want {
						t.Errorf("buildFlags[%d] = %q, want %q", i, config.buildFlags[i], want)
					}
				}
			}
		})
	}
}

// TestParseBuildArgsMissingOutputValue verifies -o without a value errors.
func TestParseBuildArgsMissingOutputValue(t *testing.T) {
	if _, err := parseBuildArgs([]string{"main.go", "-o"}); err == nil {
		t.Error("parseBuildArgs() with dangling -o returned nil error")
	}
}

// TestNeedsValue tests flag value detection.
func TestNeedsValue(t *testing.T) {
	tests := []struct {
		flag string
		want bool
	}{
		{"-ldflags", true},
		{"-tags", true},
		{"-ldflags=-s", false},
		{"-race", false},
		{"-trimpath", false},
	}
	for _, tt := range tests {
		if got := needsValue(tt.flag); got != tt.want {
			t.Errorf("needsValue(%q) = %v, want %v", tt.flag, got, tt.want)
		}
	}
}

// TestCollectGoFiles tests source discovery, including test-file exclusion.
func TestCollectGoFiles(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"main.go":      "package main\nfunc main() {}\n",
		"helper.go":    "package main\n",
		"main_test.go": "package main\n",
		"notes.txt":    "not go",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := collectGoFiles([]string{dir}, dir)
	if err != nil {
		t.Fatalf("collectGoFiles() error: %v", err)
	}

	got := make(map[string]bool)
	for _, f := range files {
		got[filepath.Base(f)] = true
	}
	if len(files) != 2 || !got["main.go"] || !got["helper.go"] {
		t.Errorf("collectGoFiles() = %v, want main.go and helper.go only", files)
	}
}

// TestCollectGoFilesMissingSource verifies inaccessible sources error.
func TestCollectGoFilesMissingSource(t *testing.T) {
	if _, err := collectGoFiles([]string{"does-not-exist.go"}, t.TempDir()); err == nil {
		t.Error("collectGoFiles() on missing file returned nil error")
	}
}
