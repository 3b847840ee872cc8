// Package histogram counts rollout depths and writes them out as a
// tab-separated table.
package histogram

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Histogram counts occurrences of rollout depths 0..MaxDepth().
type Histogram struct {
	counts []uint64
}

func New(maxDepth int) *Histogram {
	return &Histogram{counts: make([]uint64, maxDepth+1)}
}

func (h *Histogram) MaxDepth() int {
	return len(h.counts) - 1
}

func (h *Histogram) Add(depth int) {
	h.counts[depth]++
}

func (h *Histogram) Count(depth int) uint64 {
	return h.counts[depth]
}

// Total returns the number of recorded rollouts.
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, c := range h.counts {
		total += c
	}
	return total
}

// Solvable reports whether any recorded rollout reached a full clear.
func (h *Histogram) Solvable() bool {
	return h.counts[h.MaxDepth()] > 0
}

// Merge adds every count of other into h. Partial histograms built by
// independent workers merge into one this way.
func (h *Histogram) Merge(other *Histogram) error {
	if other.MaxDepth() != h.MaxDepth() {
		return fmt.Errorf("merge: depth range mismatch (%d != %d)", other.MaxDepth(), h.MaxDepth())
	}
	for depth, count := range other.counts {
		h.counts[depth] += count
	}
	return nil
}

// Counts returns a depth-to-count map of the non-zero entries.
func (h *Histogram) Counts() map[int]uint64 {
	counts := map[int]uint64{}
	for depth, count := range h.counts {
		if count > 0 {
			counts[depth] = count
		}
	}
	return counts
}

// WriteTSV writes one "depth<TAB>count" line per depth from 1 up to and
// including MaxDepth(), zeros included.
func (h *Histogram) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for depth := 1; depth <= h.MaxDepth(); depth++ {
		if _, err := fmt.Fprintf(bw, "%d\t%d\n", depth, h.counts[depth]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the TSV table to path, replacing any existing file.
func (h *Histogram) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := h.WriteTSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
