package adaptive

import (
	"sync"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

// Outcome is the single immutable result of one question-popup interaction.
type Outcome struct {
	QuestionID          uint
	DisplayedDifficulty model.Difficulty
	Attempts            int
	TimeTaken           float64
	FinalResult         bool
}

// Tracker runs the countdown for one displayed question instance.
//
// States: Presenting -> Answering -> Closed(correct) | Closed(timeout).
// A correct selection freezes the elapsed time but the outcome is only
// emitted when the window expires, matching the on-screen feedback period
// during which no further attempts are counted. External teardown via Stop
// cancels the countdown without emitting anything. The timer is released
// exactly once on every exit path.
type Tracker struct {
	mu        sync.Mutex
	question  model.Question
	displayed model.Difficulty
	window    time.Duration
	startedAt time.Time

	attempts int
	correct  bool
	frozen   time.Duration

	timer   *time.Timer
	release sync.Once
	done    chan Outcome
}

// StartTracker presents a question and starts its countdown window.
func StartTracker(q model.Question, displayed model.Difficulty, window time.Duration) *Tracker {
	t := &Tracker{
		question:  q,
		displayed: displayed,
		window:    window,
		startedAt: time.Now(),
		done:      make(chan Outcome, 1),
	}
	t.timer = time.AfterFunc(window, t.expire)
	return t
}

// Select registers one option selection and reports whether it was correct.
// Selections after a correct answer are ignored: feedback is still showing
// but the interaction is already closed for scoring.
func (t *Tracker) Select(option string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.correct {
		return true
	}
	t.attempts++
	if option == t.question.Answer {
		t.correct = true
		t.frozen = time.Since(t.startedAt)
	}
	return t.correct
}

// Done yields exactly one outcome when the window closes. The channel is
// closed without a value if the tracker was torn down externally.
func (t *Tracker) Done() <-chan Outcome {
	return t.done
}

// Stop tears the tracker down without emitting an outcome. Safe to call
// multiple times and after expiry.
func (t *Tracker) Stop() {
	t.timer.Stop()
	t.release.Do(func() {
		close(t.done)
	})
}

func (t *Tracker) expire() {
	t.release.Do(func() {
		t.mu.Lock()
		out := Outcome{
			QuestionID:          t.question.ID,
			DisplayedDifficulty: t.displayed,
			Attempts:            t.attempts,
			TimeTaken:           t.window.Seconds(),
			FinalResult:         t.correct,
		}
		if t.correct {
			out.TimeTaken = t.frozen.Seconds()
		}
		if out.Attempts < 1 {
			// A window that expires untouched still counts as one attempt;
			// the log invariant requires attempts >= 1.
			out.Attempts = 1
		}
		t.mu.Unlock()

		t.done <- out
		close(t.done)
	})
}
