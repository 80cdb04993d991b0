package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Harish3000/Learn-Labs-sub000/internal/adaptive"
	"github.com/Harish3000/Learn-Labs-sub000/internal/config"
	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"
)

// fakeAttemptStore records inserts in memory and can be told to fail from
// a given insert onward.
type fakeAttemptStore struct {
	records   []model.AttemptRecord
	failAfter int // fail the insert at this index (0-based); -1 never fails
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{failAfter: -1}
}

func (s *fakeAttemptStore) Create(record *model.AttemptRecord) error {
	if s.failAfter >= 0 && len(s.records) == s.failAfter {
		return errors.New("insert failed")
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *fakeAttemptStore) ListOrdered() ([]model.AttemptRecord, error) {
	return s.records, nil
}

func (s *fakeAttemptStore) LatestByStudent(studentID string) (*model.AttemptRecord, error) {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].StudentID == studentID {
			r := s.records[i]
			return &r, nil
		}
	}
	return nil, nil
}

type fakeQuestionFinder struct {
	questions []model.Question
}

func (f *fakeQuestionFinder) ListByChunk(chunkID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.ChunkID == chunkID {
			out = append(out, q)
		}
	}
	return out, nil
}

func newTestService(store AttemptStore, questions QuestionFinder) *AssessmentService {
	cfg := &config.Config{}
	cfg.Assessment.TimeoutSeconds = 10
	svc := NewAssessmentService(store, questions, nil, cfg)
	svc.Selector = adaptive.NewSelectorWithSeed(1)
	return svc
}

func validSubmission() *model.PerformanceSubmission {
	return &model.PerformanceSubmission{
		StudentID: "s1",
		LectureID: 1,
		Performance: []model.PerformanceEntry{
			{QuestionID: 1, DisplayedDifficulty: "2", Attempts: 1, TimeTaken: 3.5, FinalResult: true},
			{QuestionID: 2, DisplayedDifficulty: "3", Attempts: 2, TimeTaken: 8.0, FinalResult: false},
		},
	}
}

func TestSubmitBatch(t *testing.T) {
	store := newFakeAttemptStore()
	svc := newTestService(store, &fakeQuestionFinder{})

	if err := svc.SubmitBatch(context.Background(), validSubmission()); err != nil {
		t.Fatalf("SubmitBatch returned %v", err)
	}

	if len(store.records) != 2 {
		t.Fatalf("stored %d records, want 2", len(store.records))
	}
	first := store.records[0]
	if first.StudentID != "s1" || first.LectureID != 1 || first.QuestionID != 1 {
		t.Errorf("first record identity = %+v", first)
	}
	if first.DisplayedDifficulty != model.Medium {
		t.Errorf("DisplayedDifficulty = %v, want Medium", first.DisplayedDifficulty)
	}
	if first.Timestamp.IsZero() {
		t.Error("server did not assign a timestamp")
	}
}

func TestSubmitBatchValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.PerformanceSubmission)
	}{
		{"missing student", func(s *model.PerformanceSubmission) { s.StudentID = "" }},
		{"missing lecture", func(s *model.PerformanceSubmission) { s.LectureID = 0 }},
		{"empty batch", func(s *model.PerformanceSubmission) { s.Performance = nil }},
		{"missing question id", func(s *model.PerformanceSubmission) { s.Performance[0].QuestionID = 0 }},
		{"bad difficulty code", func(s *model.PerformanceSubmission) { s.Performance[0].DisplayedDifficulty = "9" }},
		{"zero attempts", func(s *model.PerformanceSubmission) { s.Performance[1].Attempts = 0 }},
		{"negative time", func(s *model.PerformanceSubmission) { s.Performance[0].TimeTaken = -1 }},
		{"time beyond window", func(s *model.PerformanceSubmission) { s.Performance[0].TimeTaken = 11 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeAttemptStore()
			svc := newTestService(store, &fakeQuestionFinder{})

			sub := validSubmission()
			tt.mutate(sub)

			err := svc.SubmitBatch(context.Background(), sub)
			if !errors.Is(err, util.ErrInvalidSubmission) {
				t.Fatalf("err = %v, want ErrInvalidSubmission", err)
			}
			// Validation runs before any insert: a bad entry anywhere in the
			// batch must keep the whole batch out of the log.
			if len(store.records) != 0 {
				t.Errorf("invalid batch left %d records in the log", len(store.records))
			}
		})
	}
}

func TestSubmitBatchFailsFast(t *testing.T) {
	store := newFakeAttemptStore()
	store.failAfter = 1
	svc := newTestService(store, &fakeQuestionFinder{})

	err := svc.SubmitBatch(context.Background(), validSubmission())
	if err == nil {
		t.Fatal("SubmitBatch succeeded despite a failing insert")
	}

	// The first record stays inserted; the failure abandons the rest.
	if len(store.records) != 1 {
		t.Errorf("stored %d records, want 1 (fail fast, no rollback)", len(store.records))
	}
}

func TestLastAttemptNoHistory(t *testing.T) {
	svc := newTestService(newFakeAttemptStore(), &fakeQuestionFinder{})

	record, err := svc.LastAttempt(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("LastAttempt returned %v", err)
	}
	if record != nil {
		t.Errorf("record = %+v, want nil for a student with no history", record)
	}
}

func TestNextQuestionNoHistoryIsValid(t *testing.T) {
	finder := &fakeQuestionFinder{questions: []model.Question{
		{ID: 1, ChunkID: 5, Difficulty: model.Easy},
		{ID: 2, ChunkID: 5, Difficulty: model.Medium},
		{ID: 3, ChunkID: 5, Difficulty: model.Hard},
	}}
	svc := newTestService(newFakeAttemptStore(), finder)

	difficulty, question, err := svc.NextQuestion(context.Background(), "fresh", 5)
	if err != nil {
		t.Fatalf("NextQuestion returned %v", err)
	}
	if !difficulty.Valid() {
		t.Errorf("difficulty = %v, outside valid range", difficulty)
	}
	if question == nil || question.Difficulty != difficulty {
		t.Errorf("picked question %+v for difficulty %v", question, difficulty)
	}
}

func TestNextQuestionEscalatesAfterFirstTryCorrect(t *testing.T) {
	store := newFakeAttemptStore()
	finder := &fakeQuestionFinder{questions: []model.Question{
		{ID: 1, ChunkID: 5, Difficulty: model.Easy},
		{ID: 2, ChunkID: 5, Difficulty: model.Medium},
		{ID: 3, ChunkID: 5, Difficulty: model.Hard},
	}}
	svc := newTestService(store, finder)

	sub := &model.PerformanceSubmission{
		StudentID: "s1",
		LectureID: 1,
		Performance: []model.PerformanceEntry{
			{QuestionID: 2, DisplayedDifficulty: "2", Attempts: 1, TimeTaken: 2, FinalResult: true},
		},
	}
	if err := svc.SubmitBatch(context.Background(), sub); err != nil {
		t.Fatalf("SubmitBatch returned %v", err)
	}

	difficulty, question, err := svc.NextQuestion(context.Background(), "s1", 5)
	if err != nil {
		t.Fatalf("NextQuestion returned %v", err)
	}
	if difficulty != model.Hard {
		t.Errorf("difficulty = %v, want Hard after a first-try correct on Medium", difficulty)
	}
	if question.ID != 3 {
		t.Errorf("question = %d, want 3", question.ID)
	}
}

func TestNextQuestionEmptyChunk(t *testing.T) {
	svc := newTestService(newFakeAttemptStore(), &fakeQuestionFinder{})

	_, _, err := svc.NextQuestion(context.Background(), "s1", 99)
	if !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("err = %v, want ErrQuestionNotFound", err)
	}
}
