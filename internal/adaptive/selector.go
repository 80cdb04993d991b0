package adaptive

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

// Selector chooses the difficulty of the next question from the student's
// single most recent outcome. Memory depth is exactly one record across the
// whole session; the caller threads the last outcome in explicitly.
//
// One Selector is shared by every request and playback session, and
// rand.Rand is not safe for concurrent use, so draws are serialized.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector() *Selector {
	return NewSelectorWithSeed(time.Now().UnixNano())
}

// NewSelectorWithSeed is used by tests that need a reproducible first draw.
func NewSelectorWithSeed(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// NextDifficulty returns the difficulty to display next. A student with no
// prior record gets a uniform random level; otherwise the transition policy
// decides deterministically.
func (s *Selector) NextDifficulty(last *model.AttemptRecord) model.Difficulty {
	if last == nil {
		s.mu.Lock()
		n := s.rng.Intn(3)
		s.mu.Unlock()
		return model.Difficulty(1 + n)
	}
	return PolicyNext(last.DisplayedDifficulty, last.Attempts, last.FinalResult)
}

// PolicyNext is the deterministic part of the selection policy:
//
//	correct on 1st attempt  -> escalate (capped at Hard)
//	correct on 2nd attempt  -> hold
//	correct on 3rd or later -> de-escalate (floored at Easy)
//	incorrect (timeout)     -> de-escalate (floored at Easy)
func PolicyNext(displayed model.Difficulty, attempts int, correct bool) model.Difficulty {
	if !correct {
		return deescalate(displayed)
	}
	switch {
	case attempts <= 1:
		return escalate(displayed)
	case attempts == 2:
		return displayed
	default:
		return deescalate(displayed)
	}
}

func escalate(d model.Difficulty) model.Difficulty {
	if d >= model.Hard {
		return model.Hard
	}
	return d + 1
}

func deescalate(d model.Difficulty) model.Difficulty {
	if d <= model.Easy {
		return model.Easy
	}
	return d - 1
}

// PickQuestion resolves the concrete question for a chunk: the first question
// tagged for the chunk whose stored difficulty matches the wanted level, or
// the chunk's first question when no level matches. The fallback is stable;
// there is no randomness here. Returns nil when the chunk has no questions.
func PickQuestion(questions []model.Question, chunkID uint, want model.Difficulty) *model.Question {
	var first *model.Question
	for i := range questions {
		q := &questions[i]
		if q.ChunkID != chunkID {
			continue
		}
		if first == nil {
			first = q
		}
		if q.Difficulty == want {
			return q
		}
	}
	return first
}
