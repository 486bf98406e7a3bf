package mem

// Level is the capability set every memory level exposes: presence
// testing, block size, the raw read/write/flush primitives a
// concrete level implements, and the load/store state machine every
// level shares. MainMemory implements Level directly; L1Cache and
// L2Cache get Load/Store/Stats for free by embedding cacheBase and
// implementing only the primitives.
type Level interface {
	IsPresent(addr uint32) bool
	BlockSize() (int, error)
	Read(addr uint32, size int) ([]byte, uint64, error)
	Write(addr uint32, markDirty bool, size int, data []byte) (uint64, error)
	FlushIfNeeded(addr uint32) (uint64, error)
	Load(addr uint32, size int) ([]byte, uint64, error)
	Store(addr uint32, size int, data []byte) (uint64, error)
	Stats() Statistics
}

// levelPrimitives is the subset of Level a concrete cache level must
// implement itself; cacheBase supplies Load/Store/Stats on top of it via
// the self-reference set up in init. Go has no virtual dispatch through
// struct embedding, so the base struct keeps an interface handle back to
// the concrete type instead.
type levelPrimitives interface {
	IsPresent(addr uint32) bool
	BlockSize() (int, error)
	Read(addr uint32, size int) ([]byte, uint64, error)
	Write(addr uint32, markDirty bool, size int, data []byte) (uint64, error)
	FlushIfNeeded(addr uint32) (uint64, error)
}

// cacheBase implements the miss-handling state machine shared by
// L1Cache and L2Cache. It knows nothing about how a level stores bytes
// or tags; it only orchestrates IsPresent,
// Read, Write, FlushIfNeeded on the concrete level and Load/Store on the
// next level down.
type cacheBase struct {
	next  Level
	impl  levelPrimitives
	stats Statistics
}

// init wires a cacheBase to the next level in the hierarchy and the
// concrete level that embeds it. Must be called once, from the
// concrete level's constructor, after the concrete value has its final
// address (i.e. after it is heap-allocated).
func (c *cacheBase) init(next Level, impl levelPrimitives) {
	c.next = next
	c.impl = impl
}

// Stats returns this level's request counters.
func (c *cacheBase) Stats() Statistics {
	return c.stats
}

// Load serves locally on a hit; otherwise it fetches a full block from
// the next level, flushes a conflicting dirty victim, fills this level
// (uncharged, since the bus transfer was already paid for by the next
// level's load), then re-reads to deliver the originally requested size
// to the caller.
func (c *cacheBase) Load(addr uint32, reqSize int) ([]byte, uint64, error) {
	if c.impl.IsPresent(addr) {
		c.stats.ReadHits++
		return c.impl.Read(addr, reqSize)
	}
	c.stats.ReadMisses++

	blockSize, err := c.impl.BlockSize()
	if err != nil {
		return nil, 0, err
	}
	aligned := blockAligned(addr, blockSize)

	blockBytes, cycles, err := c.next.Load(aligned, blockSize)
	if err != nil {
		return nil, 0, err
	}

	flushCycles, err := c.impl.FlushIfNeeded(addr)
	if err != nil {
		return nil, 0, err
	}
	cycles += flushCycles

	if _, err := c.impl.Write(aligned, false, blockSize, blockBytes); err != nil {
		return nil, 0, err
	}

	data, readCycles, err := c.impl.Read(addr, reqSize)
	if err != nil {
		return nil, 0, err
	}
	cycles += readCycles

	return data, cycles, nil
}

// Store writes into this level and marks the block dirty on a hit (the
// next level is not written), or fetches, allocates, and overlays on a
// miss.
func (c *cacheBase) Store(addr uint32, reqSize int, data []byte) (uint64, error) {
	if c.impl.IsPresent(addr) {
		c.stats.WriteHits++
		return c.impl.Write(addr, true, reqSize, data)
	}
	c.stats.WriteMisses++

	blockSize, err := c.impl.BlockSize()
	if err != nil {
		return 0, err
	}
	aligned := blockAligned(addr, blockSize)

	blockBytes, cycles, err := c.next.Load(aligned, blockSize)
	if err != nil {
		return 0, err
	}

	flushCycles, err := c.impl.FlushIfNeeded(addr)
	if err != nil {
		return 0, err
	}
	cycles += flushCycles

	if _, err := c.impl.Write(aligned, false, blockSize, blockBytes); err != nil {
		return 0, err
	}

	writeCycles, err := c.impl.Write(addr, true, reqSize, data)
	if err != nil {
		return 0, err
	}
	cycles += writeCycles

	return cycles, nil
}
