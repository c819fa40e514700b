// stress.go implements the 'rendezvous stress' command.
//
// Each round builds a recursive fan-out tree over a fresh group:
// interior nodes clone for their children, churn one extra clone, and
// wait; leaves wait directly. The round runs under a watchdog, so a
// missed wakeup shows up as a timeout error instead of a silent hang.
// Correctness pressure, not throughput, is the point; run it under
// -race for full effect.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kolkov/rendezvous/rendezvous"
)

// errStalled reports a round that did not complete within the watchdog
// interval.
var errStalled = errors.New("round stalled")

func stressCommand(args []string) {
	fs := flag.NewFlagSet("stress", flag.ExitOnError)
	branch := fs.Int("branch", 2, "children spawned per tree node")
	depth := fs.Int("depth", 5, "tree depth per round")
	rounds := fs.Int("rounds", 100, "number of fan-out rounds to run")
	timeout := fs.Duration("timeout", 60*time.Second, "watchdog per round")
	verbose := fs.Bool("v", false, "print every node identifier (very noisy)")
	_ = fs.Parse(args)

	if *branch < 1 || *depth < 1 || *rounds < 1 {
		fmt.Fprintln(os.Stderr, "Error: -branch, -depth and -rounds must all be at least 1")
		os.Exit(1)
	}

	fmt.Printf("stress: branch=%d depth=%d rounds=%d timeout=%v\n",
		*branch, *depth, *rounds, *timeout)

	start := time.Now()
	for round := 0; round < *rounds; round++ {
		if err := stressRound(*branch, *depth, *timeout, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error: round %d: %v\n", round, err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("ok: %d rounds in %v (%.1f rounds/s)\n",
		*rounds, elapsed.Round(time.Millisecond),
		float64(*rounds)/elapsed.Seconds())
}

// stressRound runs one fan-out tree to completion. The group's errgroup
// propagates the first node error; the watchdog turns a hang into
// errStalled. On a stall the round's goroutines are abandoned - the
// tool is about to exit with a diagnostic anyway.
func stressRound(branch, depth int, timeout time.Duration, verbose bool) error {
	root := rendezvous.New()
	g := new(errgroup.Group)

	h, err := root.Clone()
	if err != nil {
		return fmt.Errorf("clone root: %w", err)
	}
	g.Go(func() error {
		return stressNode(g, "0", h, branch, depth, verbose)
	})

	done := make(chan error, 1)
	go func() {
		err := g.Wait()
		root.Wait() // returns immediately once every node retired
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("%w: no completion within %v (possible missed wakeup)", errStalled, timeout)
	}
}

// stressNode is one node of the fan-out tree. Interior nodes register a
// handle per child, churn one extra clone/drop pair, and then wait for
// the whole group; leaves wait directly. The deferred Drop retires the
// handle on every error path and is a no-op after Wait.
func stressNode(g *errgroup.Group, id string, h *rendezvous.Rendezvous, branch, depth int, verbose bool) error {
	if verbose {
		fmt.Println(id)
	}
	defer h.Drop()

	if depth == 0 {
		h.Wait()
		return nil
	}

	for i := 0; i < branch; i++ {
		c, err := h.Clone()
		if err != nil {
			return fmt.Errorf("clone %s-%d: %w", id, i, err)
		}
		childID := fmt.Sprintf("%s-%d", id, i)
		g.Go(func() error {
			return stressNode(g, childID, c, branch, depth-1, verbose)
		})
	}

	// Clone-and-drop churn: registers and immediately abandons a
	// participant while the subtree is in flight.
	extra, err := h.Clone()
	if err != nil {
		return fmt.Errorf("churn clone at %s: %w", id, err)
	}
	extra.Drop()

	h.Wait()
	return nil
}
