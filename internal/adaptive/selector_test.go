package adaptive

import (
	"sync"
	"testing"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

func TestPolicyNext(t *testing.T) {
	tests := []struct {
		name      string
		displayed model.Difficulty
		attempts  int
		correct   bool
		want      model.Difficulty
	}{
		{"easy first try escalates", model.Easy, 1, true, model.Medium},
		{"medium first try escalates", model.Medium, 1, true, model.Hard},
		{"hard first try stays capped", model.Hard, 1, true, model.Hard},
		{"easy second try holds", model.Easy, 2, true, model.Easy},
		{"medium second try holds", model.Medium, 2, true, model.Medium},
		{"hard second try holds", model.Hard, 2, true, model.Hard},
		{"medium third try de-escalates", model.Medium, 3, true, model.Easy},
		{"hard fifth try de-escalates", model.Hard, 5, true, model.Medium},
		{"easy timeout stays floored", model.Easy, 2, false, model.Easy},
		{"medium timeout de-escalates", model.Medium, 1, false, model.Easy},
		{"hard timeout de-escalates", model.Hard, 4, false, model.Medium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PolicyNext(tt.displayed, tt.attempts, tt.correct)
			if got != tt.want {
				t.Errorf("PolicyNext(%v, %d, %v) = %v, want %v",
					tt.displayed, tt.attempts, tt.correct, got, tt.want)
			}
		})
	}
}

func TestNextDifficultyNoPrior(t *testing.T) {
	s := NewSelectorWithSeed(1)

	seen := make(map[model.Difficulty]bool)
	for i := 0; i < 200; i++ {
		d := s.NextDifficulty(nil)
		if !d.Valid() {
			t.Fatalf("NextDifficulty(nil) = %v, outside valid range", d)
		}
		seen[d] = true
	}

	// 200 draws should hit all three levels.
	for _, d := range []model.Difficulty{model.Easy, model.Medium, model.Hard} {
		if !seen[d] {
			t.Errorf("difficulty %v never drawn for a student with no history", d)
		}
	}
}

func TestNextDifficultyConcurrentDraws(t *testing.T) {
	// One Selector is shared across handlers and playback sessions; draws
	// from many goroutines must stay race-free and in range.
	s := NewSelector()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if d := s.NextDifficulty(nil); !d.Valid() {
					t.Errorf("concurrent draw produced %v, outside valid range", d)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNextDifficultyWithPrior(t *testing.T) {
	s := NewSelectorWithSeed(1)

	last := &model.AttemptRecord{
		DisplayedDifficulty: model.Medium,
		Attempts:            1,
		FinalResult:         true,
	}
	for i := 0; i < 10; i++ {
		if got := s.NextDifficulty(last); got != model.Hard {
			t.Fatalf("NextDifficulty with prior = %v, want Hard every time", got)
		}
	}
}

func TestPickQuestion(t *testing.T) {
	questions := []model.Question{
		{ID: 10, ChunkID: 1, Difficulty: model.Easy},
		{ID: 11, ChunkID: 1, Difficulty: model.Medium},
		{ID: 12, ChunkID: 1, Difficulty: model.Hard},
		{ID: 20, ChunkID: 2, Difficulty: model.Medium},
	}

	tests := []struct {
		name    string
		chunkID uint
		want    model.Difficulty
		wantID  uint
		wantNil bool
	}{
		{"exact match", 1, model.Hard, 12, false},
		{"exact match medium", 1, model.Medium, 11, false},
		{"fallback to first in chunk", 2, model.Hard, 20, false},
		{"no questions for chunk", 3, model.Easy, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickQuestion(questions, tt.chunkID, tt.want)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("PickQuestion = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("PickQuestion = nil, want a question")
			}
			if got.ID != tt.wantID {
				t.Errorf("PickQuestion picked question %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}

func TestPickQuestionFallbackIsStable(t *testing.T) {
	questions := []model.Question{
		{ID: 30, ChunkID: 4, Difficulty: model.Easy},
		{ID: 31, ChunkID: 4, Difficulty: model.Easy},
	}

	for i := 0; i < 20; i++ {
		got := PickQuestion(questions, 4, model.Hard)
		if got == nil || got.ID != 30 {
			t.Fatalf("fallback pick = %+v, want question 30 every time", got)
		}
	}
}
