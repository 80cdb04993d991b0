package model

import "time"

type Lecture struct {
	ID               uint       `gorm:"primaryKey;column:lecture_id" json:"lecture_id"`
	LectureTitle     string     `gorm:"size:255;not null" json:"lecture_title"`
	IsActive         bool       `gorm:"default:false" json:"is_active"`
	LectureLiveStart *time.Time `json:"lecture_live_start"`
	LectureLiveEnd   *time.Time `json:"lecture_live_end"`
	JoinedStudents   string     `gorm:"type:json" json:"joined_students"`
	Videos           []Video    `gorm:"foreignKey:LectureID" json:"videos"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (Lecture) TableName() string {
	return "lectures"
}

type Video struct {
	ID         uint   `gorm:"primaryKey;column:video_id" json:"video_id"`
	LectureID  uint   `gorm:"index" json:"lecture_id"`
	VideoTitle string `gorm:"size:255" json:"video_title"`
	VideoURL   string `gorm:"size:512" json:"video_url"`
}

func (Video) TableName() string {
	return "videos"
}

// TranscriptChunk is a time-bounded transcript segment. Each chunk carries
// one question per difficulty level; the end of the chunk is the chapter
// boundary at which a question popup is triggered.
type TranscriptChunk struct {
	ID        uint    `gorm:"primaryKey;column:chunk_id" json:"chunk_id"`
	LectureID uint    `gorm:"index" json:"lecture_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Text      string  `gorm:"type:text" json:"text"`
}

func (TranscriptChunk) TableName() string {
	return "transcript_chunks"
}

// LectureData bundles everything the playback client needs for one lecture.
type LectureData struct {
	Lecture   Lecture           `json:"lecture"`
	Chunks    []TranscriptChunk `json:"transcript_chunks"`
	Questions []Question        `json:"questions"`
}

// VideoVerification is the result of probing a lecture video against its
// transcript chunks.
type VideoVerification struct {
	VideoID         uint    `json:"video_id"`
	DurationSeconds float64 `json:"duration_seconds"`
	LastChunkEnd    float64 `json:"last_chunk_end"`
	CoversChunks    bool    `json:"covers_chunks"`
}
