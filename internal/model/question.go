package model

// Difficulty is the closed set of question difficulty levels.
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

// ParseDifficulty converts the wire code ("1"/"2"/"3") used by the content
// pipeline into a Difficulty. The bool reports whether the code was valid.
func ParseDifficulty(code string) (Difficulty, bool) {
	switch code {
	case "1":
		return Easy, true
	case "2":
		return Medium, true
	case "3":
		return Hard, true
	}
	return Medium, false
}

func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// Code returns the wire representation expected by the frontend.
func (d Difficulty) Code() string {
	switch d {
	case Easy:
		return "1"
	case Hard:
		return "3"
	default:
		return "2"
	}
}

// Label returns the human-readable name. Unknown values map to Medium,
// the same fallback the rating engine applies to missing metadata.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Easy"
	case Hard:
		return "Hard"
	default:
		return "Medium"
	}
}

// Question is an end-of-chunk quiz question produced by the content pipeline.
// Options is a JSON array of option texts; Answer holds the correct option
// key ("A".."D").
type Question struct {
	ID         uint       `gorm:"primaryKey;column:question_id" json:"question_id"`
	LectureID  uint       `gorm:"index" json:"lecture_id"`
	ChunkID    uint       `gorm:"index" json:"chunk_id"`
	Difficulty Difficulty `gorm:"type:tinyint" json:"difficulty"`
	Question   string     `gorm:"type:text" json:"question"`
	Options    string     `gorm:"type:json" json:"options"`
	Answer     string     `gorm:"size:4" json:"answer"`
}

func (Question) TableName() string {
	return "questions"
}
