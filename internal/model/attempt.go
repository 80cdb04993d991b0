package model

import "time"

// AttemptRecord is one immutable outcome of a single question-popup
// interaction. Records are append-only: they are never updated or deleted,
// and every derived view is recomputed from the full ordered log.
type AttemptRecord struct {
	RecordID            uint       `gorm:"primaryKey;column:record_id" json:"record_id"`
	StudentID           string     `gorm:"size:255;index" json:"student_id"`
	LectureID           uint       `gorm:"index" json:"lecture_id"`
	QuestionID          uint       `gorm:"index" json:"question_id"`
	DisplayedDifficulty Difficulty `gorm:"type:tinyint" json:"displayed_difficulty"`
	Attempts            int        `json:"attempts"`
	TimeTaken           float64    `json:"time_taken"`
	FinalResult         bool       `json:"final_result"`
	Timestamp           time.Time  `gorm:"index" json:"timestamp"`
}

func (AttemptRecord) TableName() string {
	return "performance_records"
}

// PerformanceEntry is one element of a submission batch as sent by the
// playback client. DisplayedDifficulty stays a string code on the wire.
type PerformanceEntry struct {
	QuestionID          uint    `json:"question_id"`
	DisplayedDifficulty string  `json:"displayed_difficulty"`
	Attempts            int     `json:"attempts"`
	TimeTaken           float64 `json:"time_taken"`
	FinalResult         bool    `json:"final_result"`
}

// PerformanceSubmission is the write-path payload: all records a student
// accumulated during one viewing session.
type PerformanceSubmission struct {
	StudentID   string             `json:"student_id" binding:"required"`
	LectureID   uint               `json:"lecture_id" binding:"required"`
	Performance []PerformanceEntry `json:"performance" binding:"required"`
}
