package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// TestSelectTargets tests target list resolution.
func TestSelectTargets(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		want    []string
		wantErr bool
	}{
		{
			name: "all targets",
			list: "rendezvous,waitgroup,condbarrier,join",
			want: []string{"rendezvous", "waitgroup", "condbarrier", "join"},
		},
		{
			name: "single target",
			list: "rendezvous",
			want: []string{"rendezvous"},
		},
		{
			name: "order preserved",
			list: "join,rendezvous",
			want: []string{"join", "rendezvous"},
		},
		{
			name: "whitespace tolerated",
			list: " rendezvous , join ",
			want: []string{"rendezvous", "join"},
		},
		{
			name:    "unknown target",
			list:    "rendezvous,barriers",
			wantErr: true,
		},
		{
			name:    "empty list",
			list:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectTargets(tt.list)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("selectTargets(%q) expected an error", tt.list)
				}
				return
			}
			if err != nil {
				t.Fatalf("selectTargets(%q) error: %v", tt.list, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("selectTargets(%q) returned %d targets, want %d", tt.list, len(got), len(tt.want))
			}
			for i, tgt := range got {
				if tgt.name != tt.want[i] {
					t.Errorf("target[%d] = %q, want %q", i, tgt.name, tt.want[i])
				}
			}
		})
	}
}

// TestLeavesFor tests the leaf-count arithmetic, including the
// saturation path.
func TestLeavesFor(t *testing.T) {
	tests := []struct {
		branch int
		depth  int
		want   int64
	}{
		{branch: 2, depth: 1, want: 2},
		{branch: 2, depth: 10, want: 1024},
		{branch: 3, depth: 3, want: 27},
		{branch: 1, depth: 100, want: 1},
		{branch: 10, depth: 30, want: -1}, // overflows int64
	}

	for _, tt := range tests {
		if got := leavesFor(tt.branch, tt.depth); got != tt.want {
			t.Errorf("leavesFor(%d, %d) = %d, want %d", tt.branch, tt.depth, got, tt.want)
		}
	}
}

// TestTargetsComplete runs every registered target once on a small tree
// to verify each adapter terminates.
func TestTargetsComplete(t *testing.T) {
	for _, tgt := range allTargets {
		t.Run(tgt.name, func(t *testing.T) {
			done := make(chan time.Duration, 1)
			go func() {
				done <- tgt.run(2, 4, false)
			}()
			select {
			case d := <-done:
				if d < 0 {
					t.Errorf("%s reported negative duration %v", tgt.name, d)
				}
			case <-time.After(30 * time.Second):
				t.Fatalf("target %s never completed", tgt.name)
			}
		})
	}
}

// TestCondBarrier exercises the comparison construct directly: a
// non-blocking leave must release blocked leavers once the count hits
// zero.
func TestCondBarrier(t *testing.T) {
	b := newCondBarrier() // one party, the "root"
	b.register()          // a second party that will block

	released := make(chan struct{})
	go func() {
		b.leave(true)
		close(released)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-released:
		t.Fatal("leave(true) returned while another party was registered")
	default:
	}

	b.leave(false) // root departs without blocking

	select {
	case <-released:
	case <-time.After(10 * time.Second):
		t.Fatal("blocked leaver was never released")
	}
}

// TestRunBenchOutput checks the table shape: a header plus one row per
// depth, with the selected target as a column.
func TestRunBenchOutput(t *testing.T) {
	selected, err := selectTargets("rendezvous")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	runBench(&buf, selected, 2, 3, 1, false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 { // header + depths 1..3
		t.Fatalf("runBench wrote %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "rendezvous") {
		t.Errorf("header %q does not name the target", lines[0])
	}
	if !strings.Contains(lines[3], "8") { // depth 3, 2^3 leaves
		t.Errorf("depth-3 row %q does not show 8 leaves", lines[3])
	}
}
