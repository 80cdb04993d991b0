package adaptive

import (
	"testing"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

func TestBoundaryDetector(t *testing.T) {
	chunks := []model.TranscriptChunk{
		{ID: 1, StartTime: 0, EndTime: 10},
		{ID: 2, StartTime: 10, EndTime: 20},
	}

	tests := []struct {
		name   string
		ticks  []float64
		wantID []uint // 0 means no crossing for that tick
	}{
		{
			name:   "exact end fires",
			ticks:  []float64{5, 10},
			wantID: []uint{0, 1},
		},
		{
			name:   "within epsilon below fires",
			ticks:  []float64{9.91},
			wantID: []uint{1},
		},
		{
			name:   "within epsilon above fires",
			ticks:  []float64{10.05},
			wantID: []uint{1},
		},
		{
			name:   "at upper edge does not fire",
			ticks:  []float64{10.1},
			wantID: []uint{0},
		},
		{
			name:   "same boundary does not retrigger",
			ticks:  []float64{9.95, 10.0, 10.05},
			wantID: []uint{1, 0, 0},
		},
		{
			name:   "sequential boundaries both fire",
			ticks:  []float64{10.0, 15, 20.0},
			wantID: []uint{1, 0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewBoundaryDetector(chunks, DefaultBoundaryEpsilon)
			for i, tick := range tt.ticks {
				got := d.Crossing(tick)
				gotID := uint(0)
				if got != nil {
					gotID = got.ID
				}
				if gotID != tt.wantID[i] {
					t.Errorf("tick %v: crossing = %d, want %d", tick, gotID, tt.wantID[i])
				}
			}
		})
	}
}

func TestBoundaryDetectorDefaultEpsilon(t *testing.T) {
	chunks := []model.TranscriptChunk{{ID: 1, EndTime: 5}}

	d := NewBoundaryDetector(chunks, 0)
	if got := d.Crossing(4.95); got == nil {
		t.Error("zero epsilon did not fall back to the default window")
	}
}
