package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/adaptive"
	"github.com/Harish3000/Learn-Labs-sub000/internal/config"
	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/logger"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	lastAttemptKeyPrefix = "assessment:last:"
	lastAttemptTTL       = 30 * 24 * time.Hour
)

// AttemptStore is the append-only log interface the assessment write and
// read paths depend on.
type AttemptStore interface {
	Create(record *model.AttemptRecord) error
	ListOrdered() ([]model.AttemptRecord, error)
	LatestByStudent(studentID string) (*model.AttemptRecord, error)
}

// QuestionFinder resolves the question catalog for a transcript chunk.
type QuestionFinder interface {
	ListByChunk(chunkID uint) ([]model.Question, error)
}

type AssessmentService struct {
	Attempts  AttemptStore
	Questions QuestionFinder
	Redis     *redis.Client
	Selector  *adaptive.Selector
	Window    time.Duration
}

func NewAssessmentService(attempts AttemptStore, questions QuestionFinder, rdb *redis.Client, cfg *config.Config) *AssessmentService {
	return &AssessmentService{
		Attempts:  attempts,
		Questions: questions,
		Redis:     rdb,
		Selector:  adaptive.NewSelector(),
		Window:    time.Duration(cfg.Assessment.TimeoutSeconds) * time.Second,
	}
}

// validateEntry rejects malformed records before they can enter the log.
func (s *AssessmentService) validateEntry(entry model.PerformanceEntry) error {
	if entry.QuestionID == 0 {
		return fmt.Errorf("%w: missing question_id", util.ErrInvalidSubmission)
	}
	if _, ok := model.ParseDifficulty(entry.DisplayedDifficulty); !ok {
		return fmt.Errorf("%w: bad displayed_difficulty %q", util.ErrInvalidSubmission, entry.DisplayedDifficulty)
	}
	if entry.Attempts < 1 {
		return fmt.Errorf("%w: attempts must be >= 1", util.ErrInvalidSubmission)
	}
	if entry.TimeTaken < 0 || entry.TimeTaken > s.Window.Seconds() {
		return fmt.Errorf("%w: time_taken %.2f outside window", util.ErrInvalidSubmission, entry.TimeTaken)
	}
	return nil
}

// SubmitBatch appends one session's records to the log. The whole batch is
// validated up front; insertions then run sequentially and fail fast: the
// first failure abandons the remaining records and surfaces one error.
// Already-inserted records are not rolled back; the caller resubmits the
// whole batch.
func (s *AssessmentService) SubmitBatch(ctx context.Context, sub *model.PerformanceSubmission) error {
	if sub.StudentID == "" || sub.LectureID == 0 || len(sub.Performance) == 0 {
		return util.ErrInvalidSubmission
	}
	for _, entry := range sub.Performance {
		if err := s.validateEntry(entry); err != nil {
			return err
		}
	}

	var lastInserted *model.AttemptRecord
	defer func() {
		if lastInserted != nil {
			s.cacheLastAttempt(ctx, lastInserted)
		}
	}()

	for _, entry := range sub.Performance {
		difficulty, _ := model.ParseDifficulty(entry.DisplayedDifficulty)
		record := &model.AttemptRecord{
			StudentID:           sub.StudentID,
			LectureID:           sub.LectureID,
			QuestionID:          entry.QuestionID,
			DisplayedDifficulty: difficulty,
			Attempts:            entry.Attempts,
			TimeTaken:           entry.TimeTaken,
			FinalResult:         entry.FinalResult,
			Timestamp:           time.Now(),
		}

		if err := s.Attempts.Create(record); err != nil {
			return fmt.Errorf("insert attempt record: %w", err)
		}
		lastInserted = record

		result := "incorrect"
		if record.FinalResult {
			result = "correct"
		}
		monitoring.AttemptCounter.WithLabelValues(difficulty.Label(), result).Inc()
	}

	return nil
}

// LastAttempt returns the student's most recent outcome: the one-record
// memory the adaptive policy runs on. Redis is a write-through cache in
// front of the log; a miss falls back to the log and backfills.
func (s *AssessmentService) LastAttempt(ctx context.Context, studentID string) (*model.AttemptRecord, error) {
	if s.Redis != nil {
		raw, err := s.Redis.Get(ctx, lastAttemptKeyPrefix+studentID).Result()
		if err == nil {
			var record model.AttemptRecord
			if err := json.Unmarshal([]byte(raw), &record); err == nil {
				return &record, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("last-attempt cache read failed", zap.Error(err))
		}
	}

	record, err := s.Attempts.LatestByStudent(studentID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		s.cacheLastAttempt(ctx, record)
	}
	return record, nil
}

func (s *AssessmentService) cacheLastAttempt(ctx context.Context, record *model.AttemptRecord) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, lastAttemptKeyPrefix+record.StudentID, raw, lastAttemptTTL).Err(); err != nil {
		logger.Log.Warn("last-attempt cache write failed", zap.Error(err))
	}
}

// NextQuestion applies the difficulty policy to the student's most recent
// outcome and resolves the concrete question for the chunk.
func (s *AssessmentService) NextQuestion(ctx context.Context, studentID string, chunkID uint) (model.Difficulty, *model.Question, error) {
	last, err := s.LastAttempt(ctx, studentID)
	if err != nil {
		return 0, nil, err
	}
	return s.NextQuestionFrom(last, chunkID)
}

// NextQuestionFrom resolves the next question from an explicitly supplied
// last outcome. Playback sessions use this directly: outcomes accumulated
// in-session have not reached the log yet, so the session threads its own
// most recent one instead of re-reading the store.
func (s *AssessmentService) NextQuestionFrom(last *model.AttemptRecord, chunkID uint) (model.Difficulty, *model.Question, error) {
	difficulty := s.Selector.NextDifficulty(last)

	questions, err := s.Questions.ListByChunk(chunkID)
	if err != nil {
		return 0, nil, err
	}

	question := adaptive.PickQuestion(questions, chunkID, difficulty)
	if question == nil {
		return difficulty, nil, util.ErrQuestionNotFound
	}
	return difficulty, question, nil
}
