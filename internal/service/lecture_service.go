package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
	"github.com/Harish3000/Learn-Labs-sub000/internal/repository"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LectureService struct {
	Lectures  *repository.LectureRepository
	Questions *repository.QuestionRepository
	Storage   *StorageService
}

func NewLectureService(lectures *repository.LectureRepository, questions *repository.QuestionRepository, storage *StorageService) *LectureService {
	return &LectureService{Lectures: lectures, Questions: questions, Storage: storage}
}

func (s *LectureService) ListActive() ([]model.Lecture, error) {
	return s.Lectures.ListActive()
}

// LectureData bundles the lecture, its transcript chunks and its question
// catalog for the playback client.
func (s *LectureService) LectureData(lectureID uint) (*model.LectureData, error) {
	lecture, err := s.Lectures.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLectureNotFound
		}
		return nil, err
	}

	chunks, err := s.Lectures.ListChunks(lectureID)
	if err != nil {
		return nil, err
	}
	questions, err := s.Questions.ListByLecture(lectureID)
	if err != nil {
		return nil, err
	}

	return &model.LectureData{
		Lecture:   *lecture,
		Chunks:    chunks,
		Questions: questions,
	}, nil
}

// Join adds the student to the lecture's joined list. Joining twice is a
// no-op. The read-modify-write on the JSON column is not guarded, so two
// students joining in the same instant can drop one of the writes; the list
// is informational and the join flow tolerates a retry.
func (s *LectureService) Join(lectureID uint, email string) (alreadyJoined bool, err error) {
	lecture, err := s.Lectures.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrLectureNotFound
		}
		return false, err
	}

	var joined []string
	if lecture.JoinedStudents != "" {
		if err := json.Unmarshal([]byte(lecture.JoinedStudents), &joined); err != nil {
			joined = nil
		}
	}

	for _, existing := range joined {
		if existing == email {
			return true, nil
		}
	}

	joined = append(joined, email)
	raw, err := json.Marshal(joined)
	if err != nil {
		return false, err
	}
	lecture.JoinedStudents = string(raw)

	return false, s.Lectures.Update(lecture)
}

// LiveWindow returns the scheduled live start and end of a lecture.
func (s *LectureService) LiveWindow(lectureID uint) (start, end *time.Time, err error) {
	lecture, err := s.Lectures.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrLectureNotFound
		}
		return nil, nil, err
	}
	return lecture.LectureLiveStart, lecture.LectureLiveEnd, nil
}

// VerifyVideo probes the lecture's video and checks that its duration
// covers the last transcript chunk, i.e. every chapter boundary is
// reachable during playback.
func (s *LectureService) VerifyVideo(ctx context.Context, lectureID uint) (*model.VideoVerification, error) {
	lecture, err := s.Lectures.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLectureNotFound
		}
		return nil, err
	}
	if len(lecture.Videos) == 0 {
		return nil, util.ErrVideoNotFound
	}
	video := lecture.Videos[0]

	chunks, err := s.Lectures.ListChunks(lectureID)
	if err != nil {
		return nil, err
	}
	lastChunkEnd := 0.0
	for _, c := range chunks {
		if c.EndTime > lastChunkEnd {
			lastChunkEnd = c.EndTime
		}
	}

	info, err := util.GetVideoInfo(video.VideoURL)
	if err != nil {
		return nil, err
	}

	return &model.VideoVerification{
		VideoID:         video.ID,
		DurationSeconds: info.Duration,
		LastChunkEnd:    lastChunkEnd,
		CoversChunks:    info.Duration+0.5 >= lastChunkEnd,
	}, nil
}

// UploadAsset stores a lecture asset under a collision-free object name
// and returns its public URL.
func (s *LectureService) UploadAsset(ctx context.Context, lectureID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.Lectures.FindByID(lectureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrLectureNotFound
		}
		return "", err
	}

	objectName := fmt.Sprintf("lectures/%d/%s%s", lectureID, uuid.New().String(), filepath.Ext(filename))
	return s.Storage.Upload(ctx, objectName, reader, size, contentType)
}
