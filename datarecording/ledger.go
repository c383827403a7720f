package datarecording

import (
	"github.com/sarchlab/cachesim/mem/cachesim"
)

// LedgerTableRow is the schema of one persisted ledger entry.
type LedgerTableRow struct {
	Address uint64
	NReads  int64
	NWrites int64
}

// RecordLedger creates tableName and inserts one row per ledger entry,
// preserving the order given. Entries from a TrafficLedger arrive sorted by
// address, which keeps recorded tables reproducible.
func RecordLedger(
	rec DataRecorder,
	tableName string,
	entries []cachesim.LedgerEntry,
) {
	rec.CreateTable(tableName, LedgerTableRow{})

	for _, e := range entries {
		rec.InsertData(tableName, LedgerTableRow{
			Address: e.Address,
			NReads:  e.NReads,
			NWrites: e.NWrites,
		})
	}

	rec.Flush()
}
