package reporting

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/sarchlab/cachesim/mem/cachesim"
)

// WriteBinaryLedger serializes ledger entries as fixed-width little-endian
// (address uint64, nReads int64, nWrites int64) tuples in the order given.
// Entries coming from a TrafficLedger are sorted by address, which keeps
// dumps byte-for-byte reproducible.
func WriteBinaryLedger(w io.Writer, entries []cachesim.LedgerEntry) error {
	buf := make([]byte, 24)

	for _, e := range entries {
		binary.LittleEndian.PutUint64(buf[0:], e.Address)
		binary.LittleEndian.PutUint64(buf[8:], uint64(e.NReads))
		binary.LittleEndian.PutUint64(buf[16:], uint64(e.NWrites))

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}
	}

	return nil
}

// DumpBinaryLedger writes entries to a new file at path.
func DumpBinaryLedger(path string, entries []cachesim.LedgerEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ledger dump: %w", err)
	}

	if err := WriteBinaryLedger(f, entries); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close ledger dump: %w", err)
	}

	return nil
}

// DumpCompressedBinaryLedger writes entries to a new gzip-compressed file at
// path. Ledgers grow with the footprint of the traced program, and the
// sorted fixed-width tuples compress well.
func DumpCompressedBinaryLedger(
	path string,
	entries []cachesim.LedgerEntry,
) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ledger dump: %w", err)
	}

	zw := gzip.NewWriter(f)

	if err := WriteBinaryLedger(zw, entries); err != nil {
		zw.Close()
		f.Close()

		return err
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finish compressed ledger dump: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close ledger dump: %w", err)
	}

	return nil
}
