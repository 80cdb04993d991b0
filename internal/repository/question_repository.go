package repository

import (
	"github.com/Harish3000/Learn-Labs-sub000/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListByChunk(chunkID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.DB.Where("chunk_id = ?", chunkID).Order("question_id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) ListByLecture(lectureID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.DB.Where("lecture_id = ?", lectureID).Order("question_id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) ListByIDs(ids []uint) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.Question
	if err := r.DB.Where("question_id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
