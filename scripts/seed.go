// Demo data seeder.
//
// Inserts one sample lecture with transcript chunks and a question per
// difficulty level per chunk, for local development against an empty
// database.
//
// Usage: go run scripts/seed.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/config"
	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/database"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	start := time.Now().Add(time.Hour)
	end := start.Add(time.Hour)
	lecture := model.Lecture{
		LectureTitle:     "Introduction to Operating Systems",
		IsActive:         true,
		LectureLiveStart: &start,
		LectureLiveEnd:   &end,
		JoinedStudents:   "[]",
	}
	if err := db.Create(&lecture).Error; err != nil {
		log.Fatalf("Failed to create lecture: %v", err)
	}

	video := model.Video{
		LectureID:  lecture.ID,
		VideoTitle: "OS Lecture 1",
		VideoURL:   "uploads/lectures/demo/os-lecture-1.mp4",
	}
	if err := db.Create(&video).Error; err != nil {
		log.Fatalf("Failed to create video: %v", err)
	}

	chunkBounds := [][2]float64{
		{0, 120.5},
		{120.5, 251.0},
		{251.0, 388.25},
	}
	for i, bounds := range chunkBounds {
		chunk := model.TranscriptChunk{
			LectureID: lecture.ID,
			StartTime: bounds[0],
			EndTime:   bounds[1],
			Text:      "Transcript segment",
		}
		if err := db.Create(&chunk).Error; err != nil {
			log.Fatalf("Failed to create chunk: %v", err)
		}

		options, _ := json.Marshal([]string{"A", "B", "C", "D"})
		for _, d := range []model.Difficulty{model.Easy, model.Medium, model.Hard} {
			question := model.Question{
				LectureID:  lecture.ID,
				ChunkID:    chunk.ID,
				Difficulty: d,
				Question:   fmt.Sprintf("Sample question for segment %d", i+1),
				Options:    string(options),
				Answer:     "A",
			}
			if err := db.Create(&question).Error; err != nil {
				log.Fatalf("Failed to create question: %v", err)
			}
		}
	}

	log.Printf("Seeded lecture %d with %d chunks", lecture.ID, len(chunkBounds))

	// Dev tokens for poking the API locally; production tokens come from
	// the platform's identity provider.
	devUsers := []struct {
		id    string
		email string
		role  model.Role
	}{
		{"dev-student", "student@learnlabs.dev", model.Student},
		{"dev-lecturer", "lecturer@learnlabs.dev", model.Lecturer},
		{"dev-admin", "admin@learnlabs.dev", model.Admin},
	}
	for _, u := range devUsers {
		token, err := util.GenerateJWT(u.id, u.email, u.role, cfg.JWT.Secret, cfg.JWT.ExpireTime)
		if err != nil {
			log.Fatalf("Failed to generate %s token: %v", u.role, err)
		}
		log.Printf("%s token: %s", u.role, token)
	}
}
