package repository

import (
	"errors"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"

	"gorm.io/gorm"
)

// AttemptRepository is the append-only attempt log store. Records are
// created once and never updated or deleted.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(record *model.AttemptRecord) error {
	return r.DB.Create(record).Error
}

// ListOrdered returns the full log sorted by timestamp ascending. Every
// reduction that depends on "most recent" or "trend" relies on this order.
func (r *AttemptRepository) ListOrdered() ([]model.AttemptRecord, error) {
	var records []model.AttemptRecord
	if err := r.DB.Order("timestamp ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// LatestByStudent returns the student's single most recent record, or nil
// when the student has no history yet.
func (r *AttemptRepository) LatestByStudent(studentID string) (*model.AttemptRecord, error) {
	var record model.AttemptRecord
	err := r.DB.Where("student_id = ?", studentID).
		Order("timestamp DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
