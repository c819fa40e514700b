// bench.go implements the 'rendezvous bench' command.
//
// The workload is a tree of goroutines: every interior node spawns
// -branch children and retires its own handle without waiting, every
// leaf waits, and the root waits last. The same tree shape is driven
// through each selected target so the numbers are comparable:
//
//	rendezvous   the primitive under test
//	waitgroup    sync.WaitGroup (add on clone, done on retire)
//	condbarrier  a sync.Cond counting barrier with dynamic registration
//	join         no barrier at all; every node joins its children
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/kolkov/rendezvous/rendezvous"
)

func benchCommand(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	branch := fs.Int("branch", 2, "children spawned per tree node")
	maxDepth := fs.Int("maxdepth", 10, "run tree depths 1 through this")
	iters := fs.Int("iters", 10, "samples per cell; the minimum is reported")
	targetList := fs.String("targets", "rendezvous,waitgroup,condbarrier,join",
		"comma-separated list of targets to time")
	lockThreads := fs.Bool("lockthreads", false,
		"lock every tree goroutine to an OS thread (approximates thread-per-participant)")
	_ = fs.Parse(args)

	if *branch < 1 || *maxDepth < 1 || *iters < 1 {
		fmt.Fprintln(os.Stderr, "Error: -branch, -maxdepth and -iters must all be at least 1")
		os.Exit(1)
	}

	selected, err := selectTargets(*targetList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("goroutine tree, branch=%d, min of %d runs, GOMAXPROCS=%d\n\n",
		*branch, *iters, runtime.GOMAXPROCS(0))
	runBench(os.Stdout, selected, *branch, *maxDepth, *iters, *lockThreads)
}

// runBench times every selected target at every depth and writes one
// table row per depth.
func runBench(w io.Writer, targets []benchTarget, branch, maxDepth, iters int, lockThreads bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, "depth\tleaves\t")
	for _, tgt := range targets {
		fmt.Fprintf(tw, "%s\t", tgt.name)
	}
	fmt.Fprintln(tw)

	for depth := 1; depth <= maxDepth; depth++ {
		fmt.Fprintf(tw, "%d\t%d\t", depth, leavesFor(branch, depth))
		for _, tgt := range targets {
			best := time.Duration(0)
			for i := 0; i < iters; i++ {
				d := tgt.run(branch, depth, lockThreads)
				if best == 0 || d < best {
					best = d
				}
			}
			fmt.Fprintf(tw, "%v\t", best.Round(time.Microsecond))
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

// leavesFor returns branch^depth, saturating instead of overflowing for
// absurd inputs.
func leavesFor(branch, depth int) int64 {
	leaves := int64(1)
	for i := 0; i < depth; i++ {
		next := leaves * int64(branch)
		if branch != 0 && next/int64(branch) != leaves {
			return -1 // overflow; the run itself would never finish anyway
		}
		leaves = next
	}
	return leaves
}

// benchTarget is one timed construct.
type benchTarget struct {
	name string
	run  func(branch, depth int, lockThreads bool) time.Duration
}

var allTargets = []benchTarget{
	{name: "rendezvous", run: func(branch, depth int, lockThreads bool) time.Duration {
		return timeBarrier(rdvHandle{h: rendezvous.New()}, branch, depth, lockThreads)
	}},
	{name: "waitgroup", run: func(branch, depth int, lockThreads bool) time.Duration {
		wg := new(sync.WaitGroup)
		wg.Add(1) // the root participant
		return timeBarrier(wgHandle{wg: wg}, branch, depth, lockThreads)
	}},
	{name: "condbarrier", run: func(branch, depth int, lockThreads bool) time.Duration {
		return timeBarrier(condHandle{b: newCondBarrier()}, branch, depth, lockThreads)
	}},
	{name: "join", run: timeJoin},
}

// selectTargets resolves a comma-separated target list against the
// registry, preserving the requested order.
func selectTargets(list string) ([]benchTarget, error) {
	var selected []benchTarget
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := false
		for _, tgt := range allTargets {
			if tgt.name == name {
				selected = append(selected, tgt)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown target %q (have: %s)", name, targetNames())
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no targets selected (have: %s)", targetNames())
	}
	return selected, nil
}

func targetNames() string {
	names := make([]string, len(allTargets))
	for i, tgt := range allTargets {
		names[i] = tgt.name
	}
	return strings.Join(names, ", ")
}

// barrierLike is the common shape of the timed constructs: register a
// participant, retire by waiting, or retire by dropping out.
type barrierLike interface {
	clone() barrierLike
	wait()
	drop()
}

// timeBarrier times one tree run over any barrierLike construct,
// mirroring the same call pattern for every target: the root clones a
// handle into the tree, the tree runs, the root waits.
func timeBarrier(root barrierLike, branch, depth int, lockThreads bool) time.Duration {
	start := time.Now()
	recurseBarrier(root.clone(), branch, depth, lockThreads)
	root.wait()
	return time.Since(start)
}

func recurseBarrier(b barrierLike, branch, depth int, lockThreads bool) {
	if depth == 0 {
		b.wait()
		return
	}
	for i := 0; i < branch; i++ {
		c := b.clone()
		go func() {
			if lockThreads {
				runtime.LockOSThread() // never unlocked; the thread retires with the goroutine
			}
			recurseBarrier(c, branch, depth-1, lockThreads)
		}()
	}
	b.drop()
}

// timeJoin is the no-barrier baseline: every node blocks on its own
// children, so completion propagates up the tree join by join.
func timeJoin(branch, depth int, lockThreads bool) time.Duration {
	start := time.Now()
	recurseJoin(branch, depth, lockThreads)
	return time.Since(start)
}

func recurseJoin(branch, depth int, lockThreads bool) {
	if depth == 0 {
		return
	}
	var wg sync.WaitGroup
	wg.Add(branch)
	for i := 0; i < branch; i++ {
		go func() {
			defer wg.Done()
			if lockThreads {
				runtime.LockOSThread()
			}
			recurseJoin(branch, depth-1, lockThreads)
		}()
	}
	wg.Wait()
}

// rdvHandle adapts the primitive under test.
type rdvHandle struct {
	h *rendezvous.Rendezvous
}

func (r rdvHandle) clone() barrierLike {
	c, err := r.h.Clone()
	if err != nil {
		// Unreachable at bench scales; the ceiling is 2^32-1 handles.
		panic(err)
	}
	return rdvHandle{h: c}
}

func (r rdvHandle) wait() { r.h.Wait() }
func (r rdvHandle) drop() { r.h.Drop() }

// wgHandle adapts sync.WaitGroup to the same protocol: registering is
// Add(1), either retirement is Done, and waiting additionally blocks on
// Wait. The counter never reaches zero while registrations are still
// possible, because every node adds for its children before its own
// Done.
type wgHandle struct {
	wg *sync.WaitGroup
}

func (w wgHandle) clone() barrierLike {
	w.wg.Add(1)
	return w
}

func (w wgHandle) wait() {
	w.wg.Done()
	w.wg.Wait()
}

func (w wgHandle) drop() { w.wg.Done() }

// condBarrier is a counting barrier over sync.Cond with dynamic
// registration, so it can absorb the same grow-by-cloning workload.
type condBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
}

func newCondBarrier() *condBarrier {
	b := &condBarrier{parties: 1}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *condBarrier) register() {
	b.mu.Lock()
	b.parties++
	b.mu.Unlock()
}

// leave retires one party. The last one out broadcasts; earlier leavers
// either block until then or, when block is false, depart immediately.
func (b *condBarrier) leave(block bool) {
	b.mu.Lock()
	b.parties--
	if b.parties == 0 {
		b.cond.Broadcast()
	} else if block {
		for b.parties > 0 {
			b.cond.Wait()
		}
	}
	b.mu.Unlock()
}

type condHandle struct {
	b *condBarrier
}

func (c condHandle) clone() barrierLike {
	c.b.register()
	return c
}

func (c condHandle) wait() { c.b.leave(true) }
func (c condHandle) drop() { c.b.leave(false) }
