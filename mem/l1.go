package mem

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// L1Cache is the direct-mapped, write-back, write-allocate first-level
// cache. Direct-mapped is implemented as the associativity-1 special
// case of the akita directory used elsewhere for set-associative LRU
// caches: with one way per set, "the way that holds this tag" and "the
// way that will be victimized" are always the same slot, so every write
// lands through directory.FindVictim without needing a separate
// present-in-way lookup.
type L1Cache struct {
	cacheBase

	blockSize  int
	offsetBits int
	indexBits  int
	tagBits    int
	timing     LevelTiming
	directory  *akitacache.DirectoryImpl
	dataStore  [][]byte
}

// NewL1Cache constructs an L1 cache of the fixed 4 KiB size, backed by
// next (an L2Cache or MainMemory), with the given block size.
func NewL1Cache(next Level, blockSize int, timing LevelTiming) (*L1Cache, error) {
	if !isPowerOfTwo(blockSize) || blockSize < 4 || blockSize > 128 {
		return nil, fmt.Errorf("%w: L1 block size must be a power of two in [4,128], got %d", ErrInvalidArgs, blockSize)
	}

	numBlocks := L1CacheSizeBytes / blockSize
	offsetBits := offsetBitsFor(blockSize)
	indexBits := indexBitsFor(numBlocks)

	l1 := &L1Cache{
		blockSize:  blockSize,
		offsetBits: offsetBits,
		indexBits:  indexBits,
		tagBits:    tagBitsFor(offsetBits, indexBits),
		timing:     timing,
		directory:  akitacache.NewDirectory(numBlocks, 1, blockSize, akitacache.NewLRUVictimFinder()),
		dataStore:  make([][]byte, numBlocks),
	}
	for i := range l1.dataStore {
		l1.dataStore[i] = make([]byte, blockSize)
	}
	l1.cacheBase.init(next, l1)

	return l1, nil
}

// BlockSize returns L1's configured block size.
func (l *L1Cache) BlockSize() (int, error) {
	return l.blockSize, nil
}

func (l *L1Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID
}

// IsPresent reports a hit: valid and tag match at this address's index.
func (l *L1Cache) IsPresent(addr uint32) bool {
	blockAddr := blockAligned(addr, l.blockSize)
	blk := l.directory.Lookup(0, uint64(blockAddr))
	return blk != nil && blk.IsValid
}

// Read returns n bytes starting at addr from the resident block.
// Precondition: IsPresent(addr).
func (l *L1Cache) Read(addr uint32, n int) ([]byte, uint64, error) {
	blockAddr := blockAligned(addr, l.blockSize)
	blk := l.directory.Lookup(0, uint64(blockAddr))
	if blk == nil || !blk.IsValid {
		return nil, 0, fmt.Errorf("%w: L1 Read at 0x%06X with no resident block", ErrContractViolation, addr)
	}

	offset := addressOffset(addr, l.offsetBits)
	out := make([]byte, n)
	copy(out, l.dataStore[l.blockIndex(blk)][offset:int(offset)+n])
	l.directory.Visit(blk)

	return out, l.transferCycles(n), nil
}

// Write overwrites n bytes at addr within this level's single way per
// set: the tag is set to addr's tag, valid is set, and dirty is the OR
// of the existing dirty bit with markDirty when the slot already holds
// this same block, or markDirty alone otherwise (i.e. on a conflicting
// fill).
func (l *L1Cache) Write(addr uint32, markDirty bool, n int, data []byte) (uint64, error) {
	blockAddr := blockAligned(addr, l.blockSize)
	blk := l.directory.FindVictim(uint64(blockAddr))
	if blk == nil {
		return 0, fmt.Errorf("%w: L1 directory has no victim for 0x%06X", ErrContractViolation, addr)
	}

	sameBlock := blk.IsValid && blk.Tag == uint64(blockAddr)
	dirty := markDirty
	if sameBlock {
		dirty = blk.IsDirty || markDirty
	}

	offset := addressOffset(addr, l.offsetBits)
	copy(l.dataStore[l.blockIndex(blk)][int(offset):int(offset)+n], data[:n])

	blk.Tag = uint64(blockAddr)
	blk.IsValid = true
	blk.IsDirty = dirty
	l.directory.Visit(blk)

	return l.transferCycles(n), nil
}

// FlushIfNeeded writes back this slot's current contents if they are
// valid, dirty, and about to be replaced by a different block, then
// clears the dirty bit. The victim's data is read directly from
// dataStore, bypassing Read/Visit, so the flush never disturbs LRU
// ordering (there is none to disturb at L1, but L2 shares this shape).
func (l *L1Cache) FlushIfNeeded(addr uint32) (uint64, error) {
	blockAddr := blockAligned(addr, l.blockSize)
	blk := l.directory.FindVictim(uint64(blockAddr))
	if blk == nil {
		return 0, nil
	}
	if !blk.IsValid || !blk.IsDirty || blk.Tag == uint64(blockAddr) {
		return 0, nil
	}

	victimAddr := uint32(blk.Tag)
	victimData := make([]byte, l.blockSize)
	copy(victimData, l.dataStore[l.blockIndex(blk)])

	cycles, err := l.next.Store(victimAddr, l.blockSize, victimData)
	if err != nil {
		return 0, err
	}
	blk.IsDirty = false

	return cycles, nil
}

func (l *L1Cache) transferCycles(n int) uint64 {
	return transferCycles(n, int(l.timing.HitTime), l.timing.BusWidthBits, l.timing.BusAccessTime)
}

// Bytes returns the full contents of L1's data memory as a single flat
// byte slice, in block-index order, for dumping to the l1 output file.
func (l *L1Cache) Bytes() []byte {
	out := make([]byte, 0, L1CacheSizeBytes)
	for _, block := range l.dataStore {
		out = append(out, block...)
	}
	return out
}
