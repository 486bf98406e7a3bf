package mem

// TagEntry is the externally-documented, bit-packed view of a cache
// slot's metadata: tag in the low tagBits bits, dirty at bit tagBits,
// valid at bit tagBits+1. The hierarchy itself tracks tag/dirty/valid as
// plain fields on the akita directory's Block (see l1.go and l2.go); TagEntry
// exists so tests and debugging tools can check the hierarchy against
// this documented representation without depending on how the state is
// actually stored.
type TagEntry uint32

// PackTagEntry builds the packed representation of a slot from its tag,
// dirty bit, and valid bit, given how many bits the current level uses
// for the tag.
func PackTagEntry(tag uint32, dirty, valid bool, tagBits int) TagEntry {
	entry := tag & (uint32(1)<<tagBits - 1)
	if dirty {
		entry |= 1 << tagBits
	}
	if valid {
		entry |= 1 << (tagBits + 1)
	}
	return TagEntry(entry)
}

// Unpack splits a packed tag entry back into tag, dirty, and valid.
func (e TagEntry) Unpack(tagBits int) (tag uint32, dirty, valid bool) {
	mask := uint32(1)<<tagBits - 1
	tag = uint32(e) & mask
	dirty = uint32(e)&(1<<tagBits) != 0
	valid = uint32(e)&(1<<(tagBits+1)) != 0
	return tag, dirty, valid
}
