package analytics

import (
	"math"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

// ELO-style rating parameters. Every unseen student starts at InitialRating;
// each logged question acts as an opponent whose strength depends on the
// difficulty stored on the question itself, not the displayed level.
const (
	InitialRating = 1200.0
	KFactor       = 32.0
)

// OpponentRating maps a question's logged difficulty to its opponent
// strength. Missing or unknown metadata falls back to the Medium bucket
// instead of failing the computation.
func OpponentRating(d model.Difficulty) float64 {
	switch d {
	case model.Easy:
		return 1000
	case model.Hard:
		return 1400
	default:
		return 1200
	}
}

// Record is one attempt joined with the static metadata the reductions
// need: the question's logged difficulty and display strings.
type Record struct {
	model.AttemptRecord
	ActualDifficulty model.Difficulty
	QuestionText     string
	LectureTitle     string
}

// UpdateRating applies one outcome to a running rating. A correct outcome
// never decreases the rating; an incorrect one never increases it. No floor
// or ceiling is enforced.
func UpdateRating(current, opponent float64, correct bool) float64 {
	expected := 1 / (1 + math.Pow(10, (opponent-current)/400))
	actual := 0.0
	if correct {
		actual = 1.0
	}
	return current + KFactor*(actual-expected)
}

// FoldRatings folds the attempt log into per-student ratings. The input must
// already be sorted by timestamp ascending; ordering is load-bearing, and it
// is the caller's job to guarantee it. The fold keeps no state outside its
// return values, so repeated calls over the same log reproduce the same
// ratings exactly.
func FoldRatings(records []Record) (order []string, ratings map[string]float64) {
	ratings = make(map[string]float64)
	for _, r := range records {
		current, seen := ratings[r.StudentID]
		if !seen {
			current = InitialRating
			order = append(order, r.StudentID)
		}
		ratings[r.StudentID] = UpdateRating(current, OpponentRating(r.ActualDifficulty), r.FinalResult)
	}
	return order, ratings
}

// RoundRating converts a raw folded rating to the displayed integer value.
func RoundRating(raw float64) int {
	return int(math.Round(raw))
}
