package analytics

import (
	"math"
	"sort"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"
)

const (
	topQuestionCount  = 5
	topPerformerCount = 5
	topActivePairs    = 10
)

// BuildDashboard runs every reduction over the joined attempt log and
// returns the full admin bundle. Records must be sorted by timestamp
// ascending. The function is pure: rerunning it over the same log yields
// identical output, and an empty log yields empty views rather than an
// error.
func BuildDashboard(records []Record) *model.Dashboard {
	order, ratings := FoldRatings(records)

	eloScores := make([]model.EloScore, 0, len(order))
	for _, studentID := range order {
		eloScores = append(eloScores, model.EloScore{
			StudentID: studentID,
			Elo:       RoundRating(ratings[studentID]),
		})
	}

	hardest := hardestQuestions(records)

	return &model.Dashboard{
		EloScores:                 eloScores,
		PerformanceOverTime:       performanceOverTime(records),
		StudentEloDetails:         studentRollups(records, order, ratings),
		HardestQuestions:          hardest,
		StudentHardestPerformance: hardestPerformance(records, hardest),
		LecturePerformance:        lectureRollups(records),
		MostActiveStudents:        mostActivePairs(records),
		VariabilityQuestions:      variabilityQuestions(records),
		TopPerformers:             topPerformers(eloScores),
	}
}

// performanceOverTime buckets correctness by calendar date (timestamps
// truncated to the UTC day).
func performanceOverTime(records []Record) []model.DailyCorrectness {
	type bucket struct {
		total   int
		correct int
	}
	var dates []string
	buckets := make(map[string]*bucket)
	for _, r := range records {
		date := r.Timestamp.UTC().Format(util.DateFormat)
		b, ok := buckets[date]
		if !ok {
			b = &bucket{}
			buckets[date] = b
			dates = append(dates, date)
		}
		b.total++
		if r.FinalResult {
			b.correct++
		}
	}

	out := make([]model.DailyCorrectness, 0, len(dates))
	for _, date := range dates {
		b := buckets[date]
		out = append(out, model.DailyCorrectness{
			Date:           date,
			AverageCorrect: float64(b.correct) / float64(b.total),
		})
	}
	return out
}

func studentRollups(records []Record, order []string, ratings map[string]float64) []model.StudentRollup {
	type stats struct {
		total       int
		correct     int
		attemptsSum int
		timeSum     float64
	}
	byStudent := make(map[string]*stats)
	for _, r := range records {
		s, ok := byStudent[r.StudentID]
		if !ok {
			s = &stats{}
			byStudent[r.StudentID] = s
		}
		s.total++
		if r.FinalResult {
			s.correct++
		}
		s.attemptsSum += r.Attempts
		s.timeSum += r.TimeTaken
	}

	out := make([]model.StudentRollup, 0, len(order))
	for _, studentID := range order {
		s := byStudent[studentID]
		out = append(out, model.StudentRollup{
			StudentID:         studentID,
			TotalAttempted:    s.total,
			PercentageCorrect: float64(s.correct) / float64(s.total) * 100,
			AverageAttempts:   float64(s.attemptsSum) / float64(s.total),
			AverageTimeTaken:  s.timeSum / float64(s.total),
			Elo:               RoundRating(ratings[studentID]),
		})
	}
	return out
}

// hardestQuestions ranks questions by difficultyScore = avgAttempts *
// avgTimeTaken. The sort is stable: questions with equal scores keep their
// first-encounter order.
func hardestQuestions(records []Record) []model.QuestionHardness {
	type stats struct {
		total       int
		correct     int
		attemptsSum int
		timeSum     float64
		text        string
	}
	var ids []uint
	byQuestion := make(map[uint]*stats)
	for _, r := range records {
		s, ok := byQuestion[r.QuestionID]
		if !ok {
			s = &stats{text: r.QuestionText}
			byQuestion[r.QuestionID] = s
			ids = append(ids, r.QuestionID)
		}
		s.total++
		if r.FinalResult {
			s.correct++
		}
		s.attemptsSum += r.Attempts
		s.timeSum += r.TimeTaken
	}

	out := make([]model.QuestionHardness, 0, len(ids))
	for _, id := range ids {
		s := byQuestion[id]
		avgAttempts := float64(s.attemptsSum) / float64(s.total)
		avgTime := s.timeSum / float64(s.total)
		out = append(out, model.QuestionHardness{
			QuestionID:      id,
			Question:        s.text,
			AvgAttempts:     avgAttempts,
			AvgTimeTaken:    avgTime,
			SuccessRate:     float64(s.correct) / float64(s.total),
			DifficultyScore: avgAttempts * avgTime,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DifficultyScore > out[j].DifficultyScore
	})
	if len(out) > topQuestionCount {
		out = out[:topQuestionCount]
	}
	return out
}

// hardestPerformance lists every attempt made against the current
// hardest-question set, in log order.
func hardestPerformance(records []Record, hardest []model.QuestionHardness) []model.HardQuestionAttempt {
	hardSet := make(map[uint]bool, len(hardest))
	for _, q := range hardest {
		hardSet[q.QuestionID] = true
	}

	out := make([]model.HardQuestionAttempt, 0)
	for _, r := range records {
		if !hardSet[r.QuestionID] {
			continue
		}
		out = append(out, model.HardQuestionAttempt{
			StudentID:    r.StudentID,
			QuestionID:   r.QuestionID,
			QuestionText: r.QuestionText,
			Attempts:     r.Attempts,
			TimeTaken:    r.TimeTaken,
			FinalResult:  r.FinalResult,
		})
	}
	return out
}

func lectureRollups(records []Record) []model.LectureRollup {
	type stats struct {
		total   int
		correct int
		title   string
	}
	var ids []uint
	byLecture := make(map[uint]*stats)
	for _, r := range records {
		s, ok := byLecture[r.LectureID]
		if !ok {
			s = &stats{title: r.LectureTitle}
			byLecture[r.LectureID] = s
			ids = append(ids, r.LectureID)
		}
		s.total++
		if r.FinalResult {
			s.correct++
		}
	}

	out := make([]model.LectureRollup, 0, len(ids))
	for _, id := range ids {
		s := byLecture[id]
		out = append(out, model.LectureRollup{
			LectureID:      id,
			LectureTitle:   s.title,
			AverageCorrect: float64(s.correct) / float64(s.total),
		})
	}
	return out
}

func mostActivePairs(records []Record) []model.ActivePair {
	type key struct {
		student string
		lecture uint
	}
	type stats struct {
		total   int
		correct int
		title   string
	}
	var keys []key
	byPair := make(map[key]*stats)
	for _, r := range records {
		k := key{student: r.StudentID, lecture: r.LectureID}
		s, ok := byPair[k]
		if !ok {
			s = &stats{title: r.LectureTitle}
			byPair[k] = s
			keys = append(keys, k)
		}
		s.total++
		if r.FinalResult {
			s.correct++
		}
	}

	out := make([]model.ActivePair, 0, len(keys))
	for _, k := range keys {
		s := byPair[k]
		out = append(out, model.ActivePair{
			StudentID:         k.student,
			LectureID:         k.lecture,
			LectureTitle:      s.title,
			TotalAttempts:     s.total,
			TotalCorrect:      s.correct,
			CorrectPercentage: float64(s.correct) / float64(s.total) * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAttempts > out[j].TotalAttempts
	})
	if len(out) > topActivePairs {
		out = out[:topActivePairs]
	}
	return out
}

// variabilityQuestions ranks questions by the population standard deviation
// of time taken. A question with a single recorded attempt has deviation 0.
func variabilityQuestions(records []Record) []model.QuestionVariability {
	type stats struct {
		times       []float64
		attemptsSum int
		text        string
	}
	var ids []uint
	byQuestion := make(map[uint]*stats)
	for _, r := range records {
		s, ok := byQuestion[r.QuestionID]
		if !ok {
			s = &stats{text: r.QuestionText}
			byQuestion[r.QuestionID] = s
			ids = append(ids, r.QuestionID)
		}
		s.times = append(s.times, r.TimeTaken)
		s.attemptsSum += r.Attempts
	}

	out := make([]model.QuestionVariability, 0, len(ids))
	for _, id := range ids {
		s := byQuestion[id]
		mean, stdDev := populationStdDev(s.times)
		out = append(out, model.QuestionVariability{
			QuestionID:    id,
			Question:      s.text,
			AvgTimeTaken:  mean,
			TimeStdDev:    stdDev,
			AvgAttempts:   float64(s.attemptsSum) / float64(len(s.times)),
			TotalAttempts: len(s.times),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimeStdDev > out[j].TimeStdDev
	})
	if len(out) > topQuestionCount {
		out = out[:topQuestionCount]
	}
	return out
}

func populationStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func topPerformers(eloScores []model.EloScore) []model.EloScore {
	out := make([]model.EloScore, len(eloScores))
	copy(out, eloScores)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Elo > out[j].Elo
	})
	if len(out) > topPerformerCount {
		out = out[:topPerformerCount]
	}
	return out
}
