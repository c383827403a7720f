// Package cachesim models set-associative, LRU-replaced cache hierarchies
// for offline performance analysis. A driver replays a stream of (address,
// isWrite) events into a SingleLevelCache or a TwoLevelCache, then reads
// hit/miss statistics and a ledger of the backing-memory traffic the stream
// would have generated.
//
// The model is functional, not timing-accurate: there are no cycle counts,
// no coherence protocol, and no prefetching. Every access runs in O(1).
package cachesim
