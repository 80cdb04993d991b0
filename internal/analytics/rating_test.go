package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

func rec(student string, difficulty model.Difficulty, correct bool, ts time.Time) Record {
	return Record{
		AttemptRecord: model.AttemptRecord{
			StudentID:   student,
			FinalResult: correct,
			Timestamp:   ts,
		},
		ActualDifficulty: difficulty,
	}
}

func TestOpponentRating(t *testing.T) {
	tests := []struct {
		name string
		d    model.Difficulty
		want float64
	}{
		{"easy", model.Easy, 1000},
		{"medium", model.Medium, 1200},
		{"hard", model.Hard, 1400},
		{"unknown falls back to medium", model.Difficulty(0), 1200},
		{"out of range falls back to medium", model.Difficulty(9), 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OpponentRating(tt.d); got != tt.want {
				t.Errorf("OpponentRating(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestUpdateRatingDirection(t *testing.T) {
	for _, opponent := range []float64{1000, 1200, 1400} {
		up := UpdateRating(1200, opponent, true)
		if up <= 1200 {
			t.Errorf("correct outcome against %v did not raise the rating: %v", opponent, up)
		}
		down := UpdateRating(1200, opponent, false)
		if down >= 1200 {
			t.Errorf("incorrect outcome against %v did not lower the rating: %v", opponent, down)
		}
	}
}

func TestUpdateRatingEqualOpponent(t *testing.T) {
	// Against an equal opponent the expected score is 0.5, so a win moves
	// the rating by exactly K/2.
	got := UpdateRating(1200, 1200, true)
	want := 1200 + KFactor/2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("UpdateRating(1200, 1200, true) = %v, want %v", got, want)
	}
}

func TestFoldRatings(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []Record{
		rec("s2", model.Medium, true, t0),
		rec("s1", model.Hard, false, t0.Add(time.Minute)),
		rec("s2", model.Easy, true, t0.Add(2*time.Minute)),
	}

	order, ratings := FoldRatings(records)

	if len(order) != 2 || order[0] != "s2" || order[1] != "s1" {
		t.Fatalf("order = %v, want first-appearance order [s2 s1]", order)
	}

	// s2: 1200 -> win vs 1200 -> win vs 1000.
	step1 := UpdateRating(InitialRating, 1200, true)
	wantS2 := UpdateRating(step1, 1000, true)
	if math.Abs(ratings["s2"]-wantS2) > 1e-9 {
		t.Errorf("s2 rating = %v, want %v", ratings["s2"], wantS2)
	}

	wantS1 := UpdateRating(InitialRating, 1400, false)
	if math.Abs(ratings["s1"]-wantS1) > 1e-9 {
		t.Errorf("s1 rating = %v, want %v", ratings["s1"], wantS1)
	}
	if ratings["s1"] >= InitialRating {
		t.Error("a single loss left the rating at or above the initial value")
	}
}

func TestFoldRatingsDeterministic(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var records []Record
	for i := 0; i < 50; i++ {
		records = append(records, rec("s1", model.Difficulty(i%3+1), i%2 == 0, t0.Add(time.Duration(i)*time.Minute)))
	}

	_, first := FoldRatings(records)
	_, second := FoldRatings(records)
	if first["s1"] != second["s1"] {
		t.Errorf("repeated folds diverged: %v vs %v", first["s1"], second["s1"])
	}
}

func TestFoldRatingsEmptyLog(t *testing.T) {
	order, ratings := FoldRatings(nil)
	if len(order) != 0 || len(ratings) != 0 {
		t.Errorf("empty log produced order=%v ratings=%v", order, ratings)
	}
}
