package main

import "testing"

// TestParseRunArgs tests separation of source files from program arguments.
func TestParseRunArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantSources []string
		wantProgram []string
		wantFlags   []string
	}{
		{
			name:        "single file no args",
			args:        []string{"main.go"},
			wantSources: []string{"main.go"},
		},
		{
			name:        "file with program args",
			args:        []string{"main.go", "arg1", "arg2"},
			wantSources: []string{"main.go"},
			wantProgram: []string{"arg1", "arg2"},
		},
		{
			name:        "multiple files",
			args:        []string{"main.go", "helper.go", "input.txt"},
			wantSources: []string{"main.go", "helper.go"},
			wantProgram: []string{"input.txt"},
		},
		{
			name:        "build flags before sources",
			args:        []string{"-tags", "debug", "main.go"},
			wantSources: []string{"main.go"},
			wantFlags:   []string{"-tags", "debug"},
		},
		{
			name:        "dashed program arg after sources",
			args:        []string{"main.go", "-port", "8080"},
			wantSources: []string{"main.go"},
			wantProgram: []string{"-port", "8080"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, programArgs, err := parseRunArgs(tt.args)
			if err != nil {
				t.Fatalf("parseRunArgs() error: %v", err)
			}

			if len(config.sourceFiles) != len(tt.wantSources) {
				t.Fatalf("sourceFiles = %v, want %v", config.sourceFiles, tt.wantSources)
			}
			for i, want := range tt.wantSources {
				if config.sourceFiles[i] != want {
					t.Errorf("sourceFiles[%d] = %q, want %q", i, config.sourceFiles[i], want)
				}
			}

			if len(programArgs) != len(tt.wantProgram) {
				t.Fatalf("programArgs = %v, want %v", programArgs, tt.wantProgram)
			}
			for i, want := range tt.wantProgram {
				if programArgs[i] != want {
					t.Errorf("programArgs[%d] = %q, want %q", i, programArgs[i], want)
				}
			}

			if len(config.buildFlags) != len(tt.wantFlags) {
				t.Fatalf("buildFlags = %v, want %v", config.buildFlags, tt.wantFlags)
			}
			for i, want := range tt.wantFlags {
				if config.buildFlags[i] != want {
					t.Errorf("buildFlags[%d] = %q, want %q", i, config.buildFlags[i], want)
				}
			}
		})
	}
}

// TestParseRunArgsErrors tests the argument-validation failures.
func TestParseRunArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", []string{}},
		{"no go files", []string{"-tags", "debug"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseRunArgs(tt.args); err == nil {
				t.Errorf("parseRunArgs(%v) returned nil error", tt.args)
			}
		})
	}
}
