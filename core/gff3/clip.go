// core/gff3/clip.go
package gff3

import "math"

type clipKind int

const (
	// clipGeneral applies the session clip mode.
	clipGeneral clipKind = iota
	// clipComplete only drops features wholly outside the range.
	clipComplete
)

// clip returns the coordinates to build a feature with and whether it is
// kept at all.
func (s *Session) clip(start, end int, kind clipKind) (int, int, bool) {
	lo, hi := s.region.Start, s.region.End
	if s.opts.Clip == ClipNone || (lo == 0 && hi == 0) {
		return start, end, true
	}
	if hi == 0 {
		hi = math.MaxInt
	}
	if end < lo || start > hi {
		return start, end, false
	}
	if kind == clipComplete || (start >= lo && end <= hi) {
		return start, end, true
	}
	if s.opts.Clip == ClipAll {
		return start, end, false
	}
	if start < lo {
		start = lo
	}
	if end > hi {
		end = hi
	}
	return start, end, true
}

// parentExcluded reports whether any Parent of l was dropped by clipping.
func (s *Session) parentExcluded(l *line) bool {
	if len(s.excluded) == 0 {
		return false
	}
	for _, p := range l.parents() {
		if s.excluded[p] {
			return true
		}
	}
	return false
}

// exclude drops l and remembers its ID so that its children follow.
func (s *Session) exclude(l *line) {
	s.stats.Excluded++
	if id := l.id(); id != "" {
		s.excluded[id] = true
	}
}
