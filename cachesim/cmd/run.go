package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cachesim"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/reporting"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a memory trace through a cache model.",
	Long: `Run replays a text trace (one "R|W address" pair per line) ` +
		`through a two-level cache hierarchy, or through a single-level ` +
		`cache with --single-level. Statistics are printed after the ` +
		`replay; ledgers can be dumped in binary form or recorded into ` +
		`a SQLite database.`,
	RunE: runTrace,
}

//nolint:funlen // Flag registration is long but trivial.
func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("trace", "", "path of the trace file to replay")
	runCmd.MarkFlagRequired("trace")

	runCmd.Flags().Uint64("line-size", 64, "cache line size in bytes")
	runCmd.Flags().Uint64("warmup", 0,
		"number of accesses to warm the cache before counting")

	runCmd.Flags().Bool("single-level", false,
		"model a single cache level instead of an L1/L2 hierarchy")
	runCmd.Flags().Uint64("num-lines", 1024,
		"single-level: total number of lines")
	runCmd.Flags().Uint64("num-ways", 4, "single-level: associativity")
	runCmd.Flags().Uint64("num-banks", 1, "single-level: number of banks")
	runCmd.Flags().Bool("allocate-on-write-only", false,
		"single-level: only write misses allocate a line")

	runCmd.Flags().Uint64("l1-lines", 512, "L1 total number of lines")
	runCmd.Flags().Uint64("l1-ways", 8, "L1 associativity")
	runCmd.Flags().Uint64("l2-lines", 1<<20, "L2 total number of lines")
	runCmd.Flags().Uint64("l2-ways", 8, "L2 associativity")
	runCmd.Flags().Uint64("l2-banks", 64, "L2 number of banks")

	runCmd.Flags().String("stats-out", "",
		"append the text report to this file instead of stderr")
	runCmd.Flags().String("ledger-out", "",
		"single-level: dump the traffic ledger to this file")
	runCmd.Flags().Bool("compress-ledger", false,
		"gzip the binary ledger dump")
	runCmd.Flags().String("db", "",
		"single-level: record the traffic ledger into this SQLite database")

	runCmd.Flags().Bool("monitor", false,
		"serve live stats over HTTP while replaying")
}

func runTrace(cmd *cobra.Command, _ []string) error {
	// A .env file can override defaults such as the monitor port.
	_ = godotenv.Load()

	model := buildModel(cmd)

	if on, _ := cmd.Flags().GetBool("monitor"); on {
		startMonitor(model)
	}

	tracePath, _ := cmd.Flags().GetString("trace")
	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	warmup, _ := cmd.Flags().GetUint64("warmup")
	numAccesses, err := replayTrace(f, model, warmup)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Replayed %d accesses\n", numAccesses)

	model.ComputeStats()

	if err := writeReport(cmd, model); err != nil {
		return err
	}

	return dumpLedgers(cmd, model)
}

func buildModel(cmd *cobra.Command) accessModel {
	lineSize, _ := cmd.Flags().GetUint64("line-size")

	if single, _ := cmd.Flags().GetBool("single-level"); single {
		numLines, _ := cmd.Flags().GetUint64("num-lines")
		numWays, _ := cmd.Flags().GetUint64("num-ways")
		numBanks, _ := cmd.Flags().GetUint64("num-banks")

		policy := cachesim.AllocateAlways
		if wo, _ := cmd.Flags().GetBool("allocate-on-write-only"); wo {
			policy = cachesim.AllocateOnWriteOnly
		}

		return cachesim.MakeSingleLevelBuilder().
			WithNumLines(numLines).
			WithNumWays(numWays).
			WithNumBanks(numBanks).
			WithLineSizeBytes(lineSize).
			WithAllocationPolicy(policy).
			Build("Cache")
	}

	l1Lines, _ := cmd.Flags().GetUint64("l1-lines")
	l1Ways, _ := cmd.Flags().GetUint64("l1-ways")
	l2Lines, _ := cmd.Flags().GetUint64("l2-lines")
	l2Ways, _ := cmd.Flags().GetUint64("l2-ways")
	l2Banks, _ := cmd.Flags().GetUint64("l2-banks")

	return cachesim.MakeTwoLevelBuilder().
		WithL1NumLines(l1Lines).
		WithL1NumWays(l1Ways).
		WithL2NumLines(l2Lines).
		WithL2NumWays(l2Ways).
		WithL2NumBanks(l2Banks).
		WithLineSizeBytes(lineSize).
		Build("Hierarchy")
}

// outputPath resolves a relative output path against CACHESIM_OUT_DIR, so
// that a .env file can redirect all run artifacts into one directory.
func outputPath(path string) string {
	outDir := os.Getenv("CACHESIM_OUT_DIR")
	if outDir == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(outDir, path)
}

func startMonitor(model accessModel) {
	monitor := monitoring.NewMonitor()

	if portStr := os.Getenv("CACHESIM_MONITOR_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err == nil {
			monitor.WithPortNumber(port)
		}
	}

	monitor.RegisterModel(model.(monitoring.Model))
	monitor.StartServer()
}

func writeReport(cmd *cobra.Command, model accessModel) error {
	write := func(w io.Writer) error {
		switch c := model.(type) {
		case *cachesim.SingleLevelCache:
			return reporting.WriteSingleLevelReport(w, c.GetStats())
		case *cachesim.TwoLevelCache:
			return reporting.WriteTwoLevelReport(w, c.GetStats())
		default:
			panic("unknown model type")
		}
	}

	if path, _ := cmd.Flags().GetString("stats-out"); path != "" {
		return reporting.AppendToFile(outputPath(path), write)
	}

	return write(os.Stderr)
}

func dumpLedgers(cmd *cobra.Command, model accessModel) error {
	c, ok := model.(*cachesim.SingleLevelCache)
	if !ok {
		return nil
	}

	entries := c.Ledger().Entries()

	if path, _ := cmd.Flags().GetString("ledger-out"); path != "" {
		path = outputPath(path)

		fmt.Fprintf(os.Stderr,
			"There were %d addrs in the traffic ledger\n", len(entries))

		compress, _ := cmd.Flags().GetBool("compress-ledger")
		if compress {
			if err := reporting.DumpCompressedBinaryLedger(
				path, entries); err != nil {
				return err
			}
		} else if err := reporting.DumpBinaryLedger(path, entries); err != nil {
			return err
		}
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		rec := datarecording.New(outputPath(dbPath))
		datarecording.RecordLedger(rec, "traffic_ledger", entries)
	}

	return nil
}
