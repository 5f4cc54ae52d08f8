package repository

import (
	"errors"

	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/util"

	"gorm.io/gorm"
)

// CatalogRepository is the authoring-side store for the training content
// catalog. It implements service.CatalogStore.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return err
}

// deleteByID removes one row by primary key and reports ErrNotFound when
// nothing matched, so admin deletes of stale ids fail loudly.
func (r *CatalogRepository) deleteByID(value interface{}, id string) error {
	res := r.DB.Where("id = ?", id).Delete(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) CreateModule(m *model.TrainingModule) error {
	return r.DB.Create(m).Error
}

func (r *CatalogRepository) DeleteModule(id string) error {
	return r.deleteByID(&model.TrainingModule{}, id)
}

func (r *CatalogRepository) GetModule(id string) (*model.TrainingModule, error) {
	var m model.TrainingModule
	if err := r.DB.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &m, nil
}

func (r *CatalogRepository) CreateFlashcard(f *model.Flashcard) error {
	return r.DB.Create(f).Error
}

func (r *CatalogRepository) UpdateFlashcard(id, question, answer string) error {
	res := r.DB.Model(&model.Flashcard{}).Where("id = ?", id).
		Updates(map[string]interface{}{"question": question, "answer": answer})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteFlashcard(id string) error {
	return r.deleteByID(&model.Flashcard{}, id)
}

func (r *CatalogRepository) CreateVideo(v *model.Video) error {
	return r.DB.Create(v).Error
}

func (r *CatalogRepository) UpdateVideo(id, title, url string) error {
	res := r.DB.Model(&model.Video{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "url": url})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteVideo(id string) error {
	return r.deleteByID(&model.Video{}, id)
}

func (r *CatalogRepository) CreateQuiz(q *model.Quiz) error {
	return r.DB.Create(q).Error
}

func (r *CatalogRepository) DeleteQuiz(id string) error {
	return r.deleteByID(&model.Quiz{}, id)
}

func (r *CatalogRepository) CreateQuestion(q *model.QuizQuestion) error {
	var quiz model.Quiz
	if err := r.DB.Select("id").First(&quiz, "id = ?", q.QuizID).Error; err != nil {
		return notFoundOr(err)
	}
	return r.DB.Create(q).Error
}

func (r *CatalogRepository) DeleteQuestion(id string) error {
	return r.deleteByID(&model.QuizQuestion{}, id)
}

func (r *CatalogRepository) CreateOption(o *model.QuizOption) error {
	var question model.QuizQuestion
	if err := r.DB.Select("id").First(&question, "id = ?", o.QuestionID).Error; err != nil {
		return notFoundOr(err)
	}
	return r.DB.Create(o).Error
}

func (r *CatalogRepository) DeleteOption(id string) error {
	return r.deleteByID(&model.QuizOption{}, id)
}
