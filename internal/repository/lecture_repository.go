package repository

import (
	"github.com/Harish3000/Learn-Labs-sub000/internal/model"

	"gorm.io/gorm"
)

type LectureRepository struct {
	DB *gorm.DB
}

func NewLectureRepository(db *gorm.DB) *LectureRepository {
	return &LectureRepository{DB: db}
}

func (r *LectureRepository) FindByID(id uint) (*model.Lecture, error) {
	var lecture model.Lecture
	if err := r.DB.Preload("Videos").First(&lecture, id).Error; err != nil {
		return nil, err
	}
	return &lecture, nil
}

// ListActive returns active lectures with their videos, ordered by live
// start time the way the lecture list page displays them.
func (r *LectureRepository) ListActive() ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.DB.Preload("Videos").
		Where("is_active = ?", true).
		Order("lecture_live_start ASC").
		Find(&lectures).Error
	if err != nil {
		return nil, err
	}
	return lectures, nil
}

func (r *LectureRepository) ListByIDs(ids []uint) ([]model.Lecture, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var lectures []model.Lecture
	if err := r.DB.Where("lecture_id IN ?", ids).Find(&lectures).Error; err != nil {
		return nil, err
	}
	return lectures, nil
}

func (r *LectureRepository) ListChunks(lectureID uint) ([]model.TranscriptChunk, error) {
	var chunks []model.TranscriptChunk
	err := r.DB.Where("lecture_id = ?", lectureID).
		Order("start_time ASC").
		Find(&chunks).Error
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *LectureRepository) Update(lecture *model.Lecture) error {
	return r.DB.Save(lecture).Error
}
