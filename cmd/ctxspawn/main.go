// Package main implements the ctxspawn CLI tool.
//
// The ctxspawn tool provides automatic execution-context propagation for Go
// programs without touching their source by hand. It works by:
//
//  1. Parsing Go source files using go/ast
//  2. Rewriting go statements to route through the interception entry point
//  3. Wiring the propagation runtime into the build
//  4. Building/running the redirected code
//
// Usage:
//
//	ctxspawn build main.go     # Build with context propagation
//	ctxspawn run main.go       # Run with context propagation
//
// This is the build-time binding strategy: every spawn call site in the
// program is redirected to the shim at build time, while the unshimmed
// primitive stays reachable under its fixed name. The alternative dynamic
// strategy (registering an override before first use) needs no tool at all.
//
// This is the CLI entry point for the standalone tool.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		buildCommand(os.Args[2:])
	case "run":
		runCommand(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("ctxspawn version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`ctxspawn - transparent context propagation across spawn boundaries

USAGE:
    ctxspawn <command> [arguments]

COMMANDS:
    build      Build Go program with go statements routed through the shim
    run        Run Go program with go statements routed through the shim
    version    Show version information
    help       Show this help message

EXAMPLES:
    # Build a program with context propagation
    ctxspawn build -o myapp main.go

    # Run a program with context propagation
    ctxspawn run main.go --flag=value

ABOUT:
    ctxspawn rewrites every go statement in your sources into a call to the
    propagation runtime's interception entry point. Code spawned that way
    observes the context that was active at the call site, with no changes
    to function signatures and no context plumbing.

    Rewriting preserves the go statement's evaluation order: the callee and
    every argument are still evaluated eagerly on the creating goroutine.

FOR MORE INFORMATION:
    Repository: https://github.com/kolkov/ctxspawn

`)
}

// buildCommand is implemented in build.go
// runCommand is implemented in run.go
