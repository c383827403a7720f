// Package addressmapping provides the pure address arithmetic that places a
// memory address in a banked, set-associative cache: line extraction, set
// indexing within a bank, and bank selection across a level.
//
// Set selection uses the low-order line-address bits, while bank selection
// hashes the whole line address. Sets optimize for capacity utilization;
// banks model independent contention domains, so their assignment must not
// reuse the bits already consumed by set indexing.
package addressmapping

import "fmt"

// A LineAddress identifies an aligned, line-sized block of the address space.
type LineAddress uint64

// AddrToLine returns the line address that holds addr.
func AddrToLine(addr uint64, log2LineSize uint64) LineAddress {
	return LineAddress(addr >> log2LineSize)
}

// SetIndex returns the set within a bank that line maps to. The caller
// guarantees that numSets is a power of two.
func SetIndex(line LineAddress, numSets uint64) uint64 {
	return uint64(line) & (numSets - 1)
}

// BankIndex returns the bank that line maps to. It folds the 64-bit line
// address into a 32-bit digest by XORing its four 16-bit slices, then
// reduces modulo numBanks. numBanks does not need to be a power of two.
func BankIndex(line LineAddress, numBanks uint64) uint64 {
	return uint64(foldXor16(line)) % numBanks
}

func foldXor16(line LineAddress) uint32 {
	digest := uint32(0)
	tmp := uint64(line)

	for i := 0; i < 4; i++ {
		digest ^= uint32(tmp & 0xffff)
		tmp >>= 16
	}

	return digest
}

// Log2 returns the base-2 logarithm of n. It panics if n is not a power of
// two, as line and word sizes must be.
func Log2(n uint64) uint64 {
	if n == 0 || n&(n-1) != 0 {
		panic(fmt.Sprintf("%d is not a power of two", n))
	}

	log := uint64(0)
	for n > 1 {
		n >>= 1
		log++
	}

	return log
}
