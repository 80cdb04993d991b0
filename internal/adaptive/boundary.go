package adaptive

import "github.com/Harish3000/Learn-Labs-sub000/internal/model"

// DefaultBoundaryEpsilon is the half-width of the detection window around a
// chunk's end time, in seconds. Playback clocks are sampled, not continuous,
// so an exact-equality check would miss boundaries.
const DefaultBoundaryEpsilon = 0.1

// BoundaryDetector watches a monotonically sampled playback clock for
// chapter-boundary crossings. A chunk fires at most once consecutively: the
// detector remembers the last chunk it fired so the same boundary does not
// retrigger while playback hovers inside the epsilon window.
type BoundaryDetector struct {
	chunks      []model.TranscriptChunk
	epsilon     float64
	lastChunkID uint
}

func NewBoundaryDetector(chunks []model.TranscriptChunk, epsilon float64) *BoundaryDetector {
	if epsilon <= 0 {
		epsilon = DefaultBoundaryEpsilon
	}
	return &BoundaryDetector{chunks: chunks, epsilon: epsilon}
}

// Crossing returns the chunk whose end time the given playback position has
// just reached, or nil when no boundary is being crossed.
func (d *BoundaryDetector) Crossing(currentTime float64) *model.TranscriptChunk {
	for i := range d.chunks {
		c := &d.chunks[i]
		if c.ID == d.lastChunkID {
			continue
		}
		if currentTime >= c.EndTime-d.epsilon && currentTime < c.EndTime+d.epsilon {
			d.lastChunkID = c.ID
			return c
		}
	}
	return nil
}
