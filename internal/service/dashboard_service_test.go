package service

import (
	"context"
	"testing"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

type fakeQuestionCatalog struct {
	questions []model.Question
}

func (f *fakeQuestionCatalog) ListByIDs(ids []uint) ([]model.Question, error) {
	return f.questions, nil
}

type fakeLectureCatalog struct {
	lectures []model.Lecture
}

func (f *fakeLectureCatalog) ListByIDs(ids []uint) ([]model.Lecture, error) {
	return f.lectures, nil
}

func TestStudentPerformanceJoinsMetadata(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeAttemptStore()
	store.records = []model.AttemptRecord{
		{StudentID: "s1", LectureID: 1, QuestionID: 1, Attempts: 1, TimeTaken: 2, FinalResult: true, Timestamp: t0},
		{StudentID: "s1", LectureID: 1, QuestionID: 1, Attempts: 1, TimeTaken: 3, FinalResult: false, Timestamp: t0.Add(time.Minute)},
	}

	svc := NewDashboardService(store,
		&fakeQuestionCatalog{questions: []model.Question{
			{ID: 1, Difficulty: model.Hard, Question: "What is a mutex?"},
		}},
		&fakeLectureCatalog{lectures: []model.Lecture{
			{ID: 1, LectureTitle: "Concurrency"},
		}},
	)

	d, err := svc.StudentPerformance(context.Background())
	if err != nil {
		t.Fatalf("StudentPerformance returned %v", err)
	}

	if len(d.HardestQuestions) != 1 || d.HardestQuestions[0].Question != "What is a mutex?" {
		t.Errorf("question text not joined: %+v", d.HardestQuestions)
	}
	if len(d.LecturePerformance) != 1 || d.LecturePerformance[0].LectureTitle != "Concurrency" {
		t.Errorf("lecture title not joined: %+v", d.LecturePerformance)
	}
	if len(d.EloScores) != 1 || d.EloScores[0].StudentID != "s1" {
		t.Errorf("eloScores = %+v", d.EloScores)
	}
}

func TestStudentPerformanceMissingMetadataDegrades(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeAttemptStore()
	store.records = []model.AttemptRecord{
		{StudentID: "s1", LectureID: 42, QuestionID: 9, Attempts: 1, TimeTaken: 2, FinalResult: true, Timestamp: t0},
	}

	svc := NewDashboardService(store, &fakeQuestionCatalog{}, &fakeLectureCatalog{})

	d, err := svc.StudentPerformance(context.Background())
	if err != nil {
		t.Fatalf("StudentPerformance returned %v", err)
	}

	if d.HardestQuestions[0].Question != "Unknown Question" {
		t.Errorf("question text = %q, want placeholder", d.HardestQuestions[0].Question)
	}
	if d.LecturePerformance[0].LectureTitle != "Lecture 42" {
		t.Errorf("lecture title = %q, want placeholder", d.LecturePerformance[0].LectureTitle)
	}
	// Rating must still move: unknown question difficulty folds as Medium,
	// and a win on Medium lands above the initial 1200.
	if d.EloScores[0].Elo != 1216 {
		t.Errorf("Elo = %d, want 1216 (one Medium win from 1200)", d.EloScores[0].Elo)
	}
}

func TestStudentPerformanceReordersLog(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeAttemptStore()
	// Out of order on purpose; the service re-sorts before folding.
	store.records = []model.AttemptRecord{
		{StudentID: "s2", LectureID: 1, QuestionID: 1, Attempts: 1, TimeTaken: 1, FinalResult: true, Timestamp: t0.Add(time.Hour)},
		{StudentID: "s1", LectureID: 1, QuestionID: 1, Attempts: 1, TimeTaken: 1, FinalResult: true, Timestamp: t0},
	}

	svc := NewDashboardService(store, &fakeQuestionCatalog{}, &fakeLectureCatalog{})

	d, err := svc.StudentPerformance(context.Background())
	if err != nil {
		t.Fatalf("StudentPerformance returned %v", err)
	}

	if d.EloScores[0].StudentID != "s1" || d.EloScores[1].StudentID != "s2" {
		t.Errorf("eloScores order = %v, want timestamp order [s1 s2]", d.EloScores)
	}
}

func TestStudentPerformanceEmptyLog(t *testing.T) {
	svc := NewDashboardService(newFakeAttemptStore(), &fakeQuestionCatalog{}, &fakeLectureCatalog{})

	d, err := svc.StudentPerformance(context.Background())
	if err != nil {
		t.Fatalf("StudentPerformance returned %v", err)
	}
	if len(d.EloScores) != 0 || len(d.StudentEloDetails) != 0 {
		t.Errorf("empty log produced non-empty dashboard: %+v", d)
	}
}
