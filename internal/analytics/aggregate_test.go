package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
)

func fullRec(student string, lecture, question uint, attempts int, timeTaken float64, correct bool, ts time.Time) Record {
	return Record{
		AttemptRecord: model.AttemptRecord{
			StudentID:   student,
			LectureID:   lecture,
			QuestionID:  question,
			Attempts:    attempts,
			TimeTaken:   timeTaken,
			FinalResult: correct,
			Timestamp:   ts,
		},
		ActualDifficulty: model.Medium,
		QuestionText:     "q",
		LectureTitle:     "l",
	}
}

func TestBuildDashboardEmptyLog(t *testing.T) {
	d := BuildDashboard(nil)

	if len(d.EloScores) != 0 || len(d.PerformanceOverTime) != 0 ||
		len(d.StudentEloDetails) != 0 || len(d.HardestQuestions) != 0 ||
		len(d.StudentHardestPerformance) != 0 || len(d.LecturePerformance) != 0 ||
		len(d.MostActiveStudents) != 0 || len(d.VariabilityQuestions) != 0 ||
		len(d.TopPerformers) != 0 {
		t.Errorf("empty log produced non-empty views: %+v", d)
	}
}

func TestStudentRollups(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []Record{
		fullRec("s1", 1, 1, 1, 4, true, t0),
		fullRec("s1", 1, 2, 2, 6, true, t0.Add(time.Minute)),
		fullRec("s1", 1, 3, 3, 8, true, t0.Add(2*time.Minute)),
		fullRec("s1", 1, 4, 1, 2, false, t0.Add(3*time.Minute)),
	}

	d := BuildDashboard(records)

	if len(d.StudentEloDetails) != 1 {
		t.Fatalf("rollup count = %d, want 1", len(d.StudentEloDetails))
	}
	r := d.StudentEloDetails[0]
	if r.TotalAttempted != 4 {
		t.Errorf("TotalAttempted = %d, want 4", r.TotalAttempted)
	}
	if r.PercentageCorrect != 75.0 {
		t.Errorf("PercentageCorrect = %v, want 75.0", r.PercentageCorrect)
	}
	if r.AverageAttempts != 1.75 {
		t.Errorf("AverageAttempts = %v, want 1.75", r.AverageAttempts)
	}
	if r.AverageTimeTaken != 5.0 {
		t.Errorf("AverageTimeTaken = %v, want 5.0", r.AverageTimeTaken)
	}
}

func TestPerformanceOverTime(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	records := []Record{
		fullRec("s1", 1, 1, 1, 1, true, day1),
		fullRec("s1", 1, 2, 1, 1, false, day1.Add(time.Hour)),
		fullRec("s1", 1, 3, 1, 1, true, day2),
	}

	d := BuildDashboard(records)

	if len(d.PerformanceOverTime) != 2 {
		t.Fatalf("trend buckets = %d, want 2", len(d.PerformanceOverTime))
	}
	if d.PerformanceOverTime[0].Date != "2025-03-01" || d.PerformanceOverTime[0].AverageCorrect != 0.5 {
		t.Errorf("day 1 bucket = %+v, want 2025-03-01 at 0.5", d.PerformanceOverTime[0])
	}
	if d.PerformanceOverTime[1].Date != "2025-03-02" || d.PerformanceOverTime[1].AverageCorrect != 1.0 {
		t.Errorf("day 2 bucket = %+v, want 2025-03-02 at 1.0", d.PerformanceOverTime[1])
	}
}

func TestHardestQuestionsTieBreakIsStable(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	// Q1 and Q2 have the same difficultyScore (avgAttempts * avgTimeTaken =
	// 10) via different shapes; the earlier-logged question must win ties.
	records := []Record{
		fullRec("s1", 1, 1, 2, 5, true, t0),
		fullRec("s1", 1, 2, 5, 2, true, t0.Add(time.Minute)),
	}

	d := BuildDashboard(records)

	if len(d.HardestQuestions) != 2 {
		t.Fatalf("hardest count = %d, want 2", len(d.HardestQuestions))
	}
	if d.HardestQuestions[0].QuestionID != 1 || d.HardestQuestions[1].QuestionID != 2 {
		t.Errorf("tie order = [%d %d], want first-encounter order [1 2]",
			d.HardestQuestions[0].QuestionID, d.HardestQuestions[1].QuestionID)
	}
	if d.HardestQuestions[0].DifficultyScore != 10 {
		t.Errorf("DifficultyScore = %v, want 10", d.HardestQuestions[0].DifficultyScore)
	}
}

func TestHardestQuestionsTopFive(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var records []Record
	for q := uint(1); q <= 8; q++ {
		records = append(records, fullRec("s1", 1, q, int(q), float64(q), true, t0.Add(time.Duration(q)*time.Minute)))
	}

	d := BuildDashboard(records)

	if len(d.HardestQuestions) != 5 {
		t.Fatalf("hardest count = %d, want capped at 5", len(d.HardestQuestions))
	}
	if d.HardestQuestions[0].QuestionID != 8 {
		t.Errorf("hardest question = %d, want 8", d.HardestQuestions[0].QuestionID)
	}

	// The per-attempt breakdown only covers the ranked set.
	for _, a := range d.StudentHardestPerformance {
		if a.QuestionID < 4 {
			t.Errorf("hardest breakdown includes unranked question %d", a.QuestionID)
		}
	}
}

func TestVariabilitySingleSampleIsZero(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []Record{
		fullRec("s1", 1, 1, 1, 7.5, true, t0),
	}

	d := BuildDashboard(records)

	if len(d.VariabilityQuestions) != 1 {
		t.Fatalf("variability count = %d, want 1", len(d.VariabilityQuestions))
	}
	v := d.VariabilityQuestions[0]
	if v.TimeStdDev != 0 {
		t.Errorf("single-sample TimeStdDev = %v, want 0", v.TimeStdDev)
	}
	if v.AvgTimeTaken != 7.5 || v.TotalAttempts != 1 {
		t.Errorf("variability stats = %+v", v)
	}
}

func TestVariabilityPopulationStdDev(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []Record{
		fullRec("s1", 1, 1, 1, 2, true, t0),
		fullRec("s2", 1, 1, 1, 4, true, t0.Add(time.Minute)),
		fullRec("s3", 1, 1, 1, 6, true, t0.Add(2*time.Minute)),
	}

	d := BuildDashboard(records)

	v := d.VariabilityQuestions[0]
	want := math.Sqrt(8.0 / 3.0) // population variance of {2,4,6}
	if math.Abs(v.TimeStdDev-want) > 1e-9 {
		t.Errorf("TimeStdDev = %v, want %v", v.TimeStdDev, want)
	}
}

func TestMostActivePairs(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var records []Record
	// s1 on lecture 1: 3 attempts, 2 correct. s2 on lecture 1: 1 attempt.
	records = append(records,
		fullRec("s1", 1, 1, 1, 1, true, t0),
		fullRec("s1", 1, 2, 1, 1, true, t0.Add(time.Minute)),
		fullRec("s1", 1, 3, 1, 1, false, t0.Add(2*time.Minute)),
		fullRec("s2", 1, 1, 1, 1, true, t0.Add(3*time.Minute)),
	)

	d := BuildDashboard(records)

	if len(d.MostActiveStudents) != 2 {
		t.Fatalf("pair count = %d, want 2", len(d.MostActiveStudents))
	}
	top := d.MostActiveStudents[0]
	if top.StudentID != "s1" || top.TotalAttempts != 3 || top.TotalCorrect != 2 {
		t.Errorf("top pair = %+v, want s1 with 3 attempts, 2 correct", top)
	}
	wantPct := 2.0 / 3.0 * 100
	if math.Abs(top.CorrectPercentage-wantPct) > 1e-9 {
		t.Errorf("CorrectPercentage = %v, want %v", top.CorrectPercentage, wantPct)
	}
}

func TestTopPerformersLeavesEloScoresAlone(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	// s1 loses once, s2 wins once; s2 ends higher but appears second in the
	// log.
	records := []Record{
		fullRec("s1", 1, 1, 1, 1, false, t0),
		fullRec("s2", 1, 1, 1, 1, true, t0.Add(time.Minute)),
	}

	d := BuildDashboard(records)

	if d.EloScores[0].StudentID != "s1" || d.EloScores[1].StudentID != "s2" {
		t.Errorf("eloScores order = %v, want first-appearance order", d.EloScores)
	}
	if d.TopPerformers[0].StudentID != "s2" {
		t.Errorf("top performer = %s, want s2", d.TopPerformers[0].StudentID)
	}
	if d.TopPerformers[0].Elo <= d.TopPerformers[1].Elo {
		t.Errorf("top performers not sorted descending: %v", d.TopPerformers)
	}
}

func TestBuildDashboardDeterministic(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var records []Record
	for i := 0; i < 60; i++ {
		records = append(records, fullRec(
			[]string{"s1", "s2", "s3"}[i%3],
			uint(i%2+1),
			uint(i%7+1),
			i%3+1,
			float64(i%10),
			i%2 == 0,
			t0.Add(time.Duration(i)*time.Minute),
		))
	}

	first := BuildDashboard(records)
	second := BuildDashboard(records)

	if len(first.HardestQuestions) != len(second.HardestQuestions) {
		t.Fatal("hardest-question count diverged between runs")
	}
	for i := range first.HardestQuestions {
		if first.HardestQuestions[i] != second.HardestQuestions[i] {
			t.Errorf("hardest[%d] diverged: %+v vs %+v", i, first.HardestQuestions[i], second.HardestQuestions[i])
		}
	}
	for i := range first.EloScores {
		if first.EloScores[i] != second.EloScores[i] {
			t.Errorf("eloScores[%d] diverged: %+v vs %+v", i, first.EloScores[i], second.EloScores[i])
		}
	}
	for i := range first.VariabilityQuestions {
		if first.VariabilityQuestions[i] != second.VariabilityQuestions[i] {
			t.Errorf("variability[%d] diverged", i)
		}
	}
}
