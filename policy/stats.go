// SPDX-License-Identifier: EPL-2.0

package policy

import "sync/atomic"

// Stats counts policy decisions. The zero value is ready to use.
type Stats struct {
	attempted  atomic.Int64
	compressed atomic.Int64
	skipped    atomic.Int64
	fallbacks  atomic.Int64
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Attempted  int64
	Compressed int64
	Skipped    int64
	Fallbacks  int64
}

// Snapshot of a nil Stats is all zeros.
func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		Attempted:  s.attempted.Load(),
		Compressed: s.compressed.Load(),
		Skipped:    s.skipped.Load(),
		Fallbacks:  s.fallbacks.Load(),
	}
}

// FallbackRate is the share of attempted compressions that fell back.
func (s Snapshot) FallbackRate() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Fallbacks) / float64(s.Attempted)
}
