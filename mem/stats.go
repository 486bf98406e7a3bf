package mem

// Statistics holds the four monotonically non-decreasing counters kept
// by every cache level, updated at the level where the request arrives,
// never at the level that ultimately serves a fill.
type Statistics struct {
	ReadHits    uint64
	ReadMisses  uint64
	WriteHits   uint64
	WriteMisses uint64
}

// Requests returns the total number of requests that reached this level.
func (s Statistics) Requests() uint64 {
	return s.ReadHits + s.ReadMisses + s.WriteHits + s.WriteMisses
}

// Misses returns the total miss count (read + write) at this level.
func (s Statistics) Misses() uint64 {
	return s.ReadMisses + s.WriteMisses
}

// Hits returns the total hit count (read + write) at this level.
func (s Statistics) Hits() uint64 {
	return s.ReadHits + s.WriteHits
}

// MissRate returns the local miss rate (misses / requests), 0 when no
// requests have been made.
func (s Statistics) MissRate() float64 {
	total := s.Requests()
	if total == 0 {
		return 0
	}
	return float64(s.Misses()) / float64(total)
}
