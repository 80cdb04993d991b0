package model

// Derived dashboard views. None of these are persisted; every dashboard
// request recomputes them from the full attempt log.

type EloScore struct {
	StudentID string `json:"student_id"`
	Elo       int    `json:"elo"`
}

type DailyCorrectness struct {
	Date           string  `json:"date"`
	AverageCorrect float64 `json:"averageCorrect"`
}

type StudentRollup struct {
	StudentID         string  `json:"student_id"`
	TotalAttempted    int     `json:"totalAttempted"`
	PercentageCorrect float64 `json:"percentageCorrect"`
	AverageAttempts   float64 `json:"averageAttempts"`
	AverageTimeTaken  float64 `json:"averageTimeTaken"`
	Elo               int     `json:"elo"`
}

type QuestionHardness struct {
	QuestionID      uint    `json:"question_id"`
	Question        string  `json:"question"`
	AvgAttempts     float64 `json:"avgAttempts"`
	AvgTimeTaken    float64 `json:"avgTimeTaken"`
	SuccessRate     float64 `json:"successRate"`
	DifficultyScore float64 `json:"difficultyScore"`
}

type HardQuestionAttempt struct {
	StudentID    string  `json:"student_id"`
	QuestionID   uint    `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Attempts     int     `json:"attempts"`
	TimeTaken    float64 `json:"time_taken"`
	FinalResult  bool    `json:"final_result"`
}

type LectureRollup struct {
	LectureID      uint    `json:"lecture_id"`
	LectureTitle   string  `json:"lecture_title"`
	AverageCorrect float64 `json:"averageCorrect"`
}

type ActivePair struct {
	StudentID         string  `json:"student_id"`
	LectureID         uint    `json:"lecture_id"`
	LectureTitle      string  `json:"lecture_title"`
	TotalAttempts     int     `json:"totalAttempts"`
	TotalCorrect      int     `json:"totalCorrect"`
	CorrectPercentage float64 `json:"correctPercentage"`
}

type QuestionVariability struct {
	QuestionID    uint    `json:"question_id"`
	Question      string  `json:"question"`
	AvgTimeTaken  float64 `json:"avgTimeTaken"`
	TimeStdDev    float64 `json:"timeStdDev"`
	AvgAttempts   float64 `json:"avgAttempts"`
	TotalAttempts int     `json:"totalAttempts"`
}

// Dashboard bundles every derived view returned by the admin read path.
type Dashboard struct {
	EloScores                 []EloScore            `json:"eloScores"`
	PerformanceOverTime       []DailyCorrectness    `json:"performanceOverTime"`
	StudentEloDetails         []StudentRollup       `json:"studentEloDetails"`
	HardestQuestions          []QuestionHardness    `json:"hardestQuestions"`
	StudentHardestPerformance []HardQuestionAttempt `json:"studentHardestPerformance"`
	LecturePerformance        []LectureRollup       `json:"lecturePerformance"`
	MostActiveStudents        []ActivePair          `json:"mostActiveStudents"`
	VariabilityQuestions      []QuestionVariability `json:"variabilityQuestions"`
	TopPerformers             []EloScore            `json:"topPerformers"`
}
