// Package main implements the rendezvous CLI harness.
//
// The harness exercises the rendezvous synchronization primitive from
// the outside, as an ordinary library consumer:
//
//  1. bench spawns trees of goroutines of configurable branching factor
//     and depth and times the primitive against alternative
//     barrier-like constructs and against raw spawn/join.
//  2. stress runs the same recursive fan-out under sustained load with
//     a watchdog, to surface missed wakeups or bookkeeping bugs rather
//     than to measure performance.
//
// Usage:
//
//	rendezvous bench -branch 2 -maxdepth 10
//	rendezvous stress -depth 5 -rounds 1000
//	rendezvous version -min v0.1.0
package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs" // align GOMAXPROCS with the CPU quota for honest timings
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "bench":
		benchCommand(os.Args[2:])
	case "stress":
		stressCommand(os.Args[2:])
	case "version", "--version", "-v":
		versionCommand(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`rendezvous - harness for the rendezvous synchronization primitive

USAGE:
    rendezvous <command> [arguments]

COMMANDS:
    bench      Time the primitive on goroutine trees against alternatives
    stress     Hammer the primitive with recursive fan-out rounds
    version    Show version information
    help       Show this help message

EXAMPLES:
    # Compare all targets on binary trees up to depth 10
    rendezvous bench

    # Wider, shallower trees, rendezvous only
    rendezvous bench -branch 8 -maxdepth 4 -targets rendezvous

    # Approximate thread-per-participant workloads
    rendezvous bench -lockthreads

    # One thousand stress rounds with a 30s watchdog per round
    rendezvous stress -rounds 1000 -timeout 30s

    # Print every node identifier while stressing (slow, very noisy)
    rendezvous stress -depth 4 -rounds 1 -v

ABOUT:
    A rendezvous group lets an unknown, growing set of goroutines agree
    on a joint completion point. Handles are cloned to register
    participants; each handle retires once, by waiting for the group or
    by dropping out immediately. The bench and stress commands contain
    no synchronization logic of their own - they drive the public API
    of github.com/kolkov/rendezvous/rendezvous.

FOR MORE INFORMATION:
    Repository: https://github.com/kolkov/rendezvous
    Documentation: https://pkg.go.dev/github.com/kolkov/rendezvous/rendezvous
`)
}
