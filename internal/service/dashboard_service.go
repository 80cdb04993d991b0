package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Harish3000/Learn-Labs-sub000/internal/analytics"
	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

// QuestionCatalog and LectureCatalog supply the static metadata joined
// onto the attempt log.
type QuestionCatalog interface {
	ListByIDs(ids []uint) ([]model.Question, error)
}

type LectureCatalog interface {
	ListByIDs(ids []uint) ([]model.Lecture, error)
}

// DashboardService builds the admin dashboard. Every request re-reads the
// full attempt log and recomputes all derived views from scratch; nothing
// is cached or materialized, so there is no derived state to invalidate.
type DashboardService struct {
	Attempts  AttemptStore
	Questions QuestionCatalog
	Lectures  LectureCatalog
}

func NewDashboardService(attempts AttemptStore, questions QuestionCatalog, lectures LectureCatalog) *DashboardService {
	return &DashboardService{Attempts: attempts, Questions: questions, Lectures: lectures}
}

func (s *DashboardService) StudentPerformance(ctx context.Context) (*model.Dashboard, error) {
	records, err := s.Attempts.ListOrdered()
	if err != nil {
		return nil, err
	}

	joined, err := s.join(records)
	if err != nil {
		return nil, err
	}

	// The fold requires timestamp-ascending input; enforce it here rather
	// than trusting how the records were fetched.
	sort.SliceStable(joined, func(i, j int) bool {
		return joined[i].Timestamp.Before(joined[j].Timestamp)
	})

	return analytics.BuildDashboard(joined), nil
}

// join attaches question and lecture metadata to each record. Missing
// question metadata degrades to the Medium difficulty bucket and a
// placeholder title instead of failing the whole computation.
func (s *DashboardService) join(records []model.AttemptRecord) ([]analytics.Record, error) {
	questionIDs := uniqueIDs(records, func(r model.AttemptRecord) uint { return r.QuestionID })
	lectureIDs := uniqueIDs(records, func(r model.AttemptRecord) uint { return r.LectureID })

	questions, err := s.Questions.ListByIDs(questionIDs)
	if err != nil {
		return nil, err
	}
	lectures, err := s.Lectures.ListByIDs(lectureIDs)
	if err != nil {
		return nil, err
	}

	questionByID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		questionByID[q.ID] = q
	}
	lectureByID := make(map[uint]model.Lecture, len(lectures))
	for _, l := range lectures {
		lectureByID[l.ID] = l
	}

	joined := make([]analytics.Record, 0, len(records))
	for _, r := range records {
		rec := analytics.Record{
			AttemptRecord:    r,
			ActualDifficulty: model.Medium,
			QuestionText:     "Unknown Question",
			LectureTitle:     fmt.Sprintf("Lecture %d", r.LectureID),
		}
		if q, ok := questionByID[r.QuestionID]; ok {
			rec.ActualDifficulty = q.Difficulty
			rec.QuestionText = q.Question
		}
		if l, ok := lectureByID[r.LectureID]; ok {
			rec.LectureTitle = l.LectureTitle
		}
		joined = append(joined, rec)
	}
	return joined, nil
}

func uniqueIDs(records []model.AttemptRecord, pick func(model.AttemptRecord) uint) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, r := range records {
		id := pick(r)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
