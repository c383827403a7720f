// Package reporting renders cache statistics and ledgers for offline
// analysis: fixed human-readable tables and fixed-width binary ledger
// dumps. All file and stream failures are reported to the caller.
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/cachesim/mem/cachesim"
	"github.com/sarchlab/cachesim/noc/traffic"
)

// WriteSingleLevelReport renders the statistics table of a single-level
// cache. The derived rates are computed first if they are stale.
func WriteSingleLevelReport(w io.Writer, s *cachesim.Stats) error {
	if !s.StatsComputed {
		s.Compute()
	}

	_, err := fmt.Fprintf(w,
		"------------ Cache Statistics ------------\n"+
			"READ_HITS\t%d (%.2f%%)\n"+
			"WRITE_HITS\t%d (%.2f%%)\n"+
			"READ_MISSES\t%d (%.2f%%)\n"+
			"WRITE_MISSES\t%d (%.2f%%)\n"+
			"EVICTIONS\t%d (%.2f%%)\n",
		s.ReadHits, s.ReadHitRate*100,
		s.WriteHits, s.WriteHitRate*100,
		s.ReadMisses, s.ReadMissRate*100,
		s.WriteMisses, s.WriteMissRate*100,
		s.Evictions, s.EvictionRate*100)
	if err != nil {
		return fmt.Errorf("failed to write cache report: %w", err)
	}

	return nil
}

// WriteTwoLevelReport renders the statistics table of a two-level cache.
// The derived rates are computed first if they are stale.
func WriteTwoLevelReport(w io.Writer, s *cachesim.HierarchyStats) error {
	if !s.StatsComputed {
		s.Compute()
	}

	_, err := fmt.Fprintf(w,
		"------------ Cache Statistics ------------\n"+
			"L1:    RH: %d (%.2f%%)    WH: %d (%.2f%%)\n"+
			"L2:    RH: %d (%.2f%%)    WH: %d (%.2f%%)\n"+
			"Mem:   RM: %d (%.2f%%)    WM: %d (%.2f%%)\n",
		s.L1ReadHits, s.L1ReadHitRate*100,
		s.L1WriteHits, s.L1WriteHitRate*100,
		s.L2ReadHits, s.L2ReadHitRate*100,
		s.L2WriteHits, s.L2WriteHitRate*100,
		s.L2ReadMisses, s.L2ReadMissRate*100,
		s.L2WriteMisses, s.L2WriteMissRate*100)
	if err != nil {
		return fmt.Errorf("failed to write cache report: %w", err)
	}

	return nil
}

// WriteTrafficReport renders the per-destination byte counts of a traffic
// accumulator.
func WriteTrafficReport(w io.Writer, a *traffic.Accumulator) error {
	_, err := fmt.Fprintf(w, "------------ Network Statistics ------------\n")
	if err != nil {
		return fmt.Errorf("failed to write traffic report: %w", err)
	}

	for _, e := range a.Entries() {
		_, err = fmt.Fprintf(w, "%d => %d : %d bytes\n",
			a.Rank(), e.Dst, e.NBytes)
		if err != nil {
			return fmt.Errorf("failed to write traffic report: %w", err)
		}
	}

	_, err = fmt.Fprintf(w, "Total bytes sent by us (%d): %d\n",
		a.Rank(), a.TotalBytes())
	if err != nil {
		return fmt.Errorf("failed to write traffic report: %w", err)
	}

	return nil
}

// AppendToFile opens path in append mode, creating it if needed, and passes
// the open stream to write. Open, write, and close failures are all
// reported.
func AppendToFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open report file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	return nil
}
