package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// An accessModel is any cache model that a trace can be replayed into.
type accessModel interface {
	Access(addr uint64, isWrite bool)
	ComputeStats()
	ZeroStatsCounters()
}

// replayTrace feeds a text trace into model. Each non-empty line holds an
// operation letter (R or W) and an address; lines starting with # are
// comments. After warmup accesses, the model's counters are zeroed once so
// that the reported stats exclude the warmup phase.
//
// It returns the number of accesses replayed after warmup.
func replayTrace(
	r io.Reader,
	model accessModel,
	warmup uint64,
) (uint64, error) {
	scanner := bufio.NewScanner(r)

	numAccesses := uint64(0)
	warmedUp := warmup == 0

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		addr, isWrite, err := parseTraceLine(text)
		if err != nil {
			return 0, fmt.Errorf("trace line %d: %w", lineNo, err)
		}

		model.Access(addr, isWrite)
		numAccesses++

		if !warmedUp && numAccesses == warmup {
			model.ZeroStatsCounters()
			numAccesses = 0
			warmedUp = true
		}
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read trace: %w", err)
	}

	return numAccesses, nil
}

func parseTraceLine(text string) (addr uint64, isWrite bool, err error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, false,
			fmt.Errorf("expected \"R|W address\", got %q", text)
	}

	switch fields[0] {
	case "R", "r":
		isWrite = false
	case "W", "w":
		isWrite = true
	default:
		return 0, false, fmt.Errorf("unknown operation %q", fields[0])
	}

	addr, err = strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad address %q: %w", fields[1], err)
	}

	return addr, isWrite, nil
}
