package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/util"
)

// CatalogStore is the authoring side of the content catalog. The
// progress engine never writes through this interface.
type CatalogStore interface {
	CreateModule(m *model.TrainingModule) error
	DeleteModule(id string) error
	GetModule(id string) (*model.TrainingModule, error)

	CreateFlashcard(f *model.Flashcard) error
	UpdateFlashcard(id, question, answer string) error
	DeleteFlashcard(id string) error

	CreateVideo(v *model.Video) error
	UpdateVideo(id, title, url string) error
	DeleteVideo(id string) error

	CreateQuiz(q *model.Quiz) error
	DeleteQuiz(id string) error

	CreateQuestion(q *model.QuizQuestion) error
	DeleteQuestion(id string) error

	CreateOption(o *model.QuizOption) error
	DeleteOption(id string) error
}

// CatalogService implements the admin authoring operations. Deleting an
// item shrinks the completion denominator; affected user aggregates
// settle on their next recompute.
type CatalogService struct {
	store   CatalogStore
	storage *StorageService
}

func NewCatalogService(store CatalogStore, storage *StorageService) *CatalogService {
	return &CatalogService{store: store, storage: storage}
}

func (s *CatalogService) CreateModule(title string, role model.UserRole) (*model.TrainingModule, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrInvalidArgument)
	}
	if role != model.Citizen && role != model.Worker {
		return nil, fmt.Errorf("%w: module role must be CITIZEN or WORKER", util.ErrInvalidArgument)
	}
	m := &model.TrainingModule{Title: title, Role: role}
	if err := s.store.CreateModule(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CatalogService) DeleteModule(id string) error {
	return s.store.DeleteModule(id)
}

func (s *CatalogService) AddFlashcard(moduleID, question, answer string) (*model.Flashcard, error) {
	if _, err := s.store.GetModule(moduleID); err != nil {
		return nil, err
	}
	f := &model.Flashcard{ModuleID: moduleID, Question: question, Answer: answer}
	if err := s.store.CreateFlashcard(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *CatalogService) UpdateFlashcard(id, question, answer string) error {
	return s.store.UpdateFlashcard(id, question, answer)
}

func (s *CatalogService) DeleteFlashcard(id string) error {
	return s.store.DeleteFlashcard(id)
}

func (s *CatalogService) AddVideo(moduleID, title, url string) (*model.Video, error) {
	if _, err := s.store.GetModule(moduleID); err != nil {
		return nil, err
	}
	v := &model.Video{ModuleID: moduleID, Title: title, URL: url}
	if err := s.store.CreateVideo(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *CatalogService) UpdateVideo(id, title, url string) error {
	return s.store.UpdateVideo(id, title, url)
}

func (s *CatalogService) DeleteVideo(id string) error {
	return s.store.DeleteVideo(id)
}

func (s *CatalogService) AddQuiz(moduleID, title string) (*model.Quiz, error) {
	if _, err := s.store.GetModule(moduleID); err != nil {
		return nil, err
	}
	q := &model.Quiz{ModuleID: moduleID, Title: title}
	if err := s.store.CreateQuiz(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *CatalogService) DeleteQuiz(id string) error {
	return s.store.DeleteQuiz(id)
}

type OptionInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// AddQuizQuestion creates a question and, for MCQ, its options in one
// call the way the dashboard submits them.
func (s *CatalogService) AddQuizQuestion(quizID string, qType model.QuestionType, question, answer string, options []OptionInput) (*model.QuizQuestion, error) {
	switch qType {
	case model.MCQ, model.Subjective:
	default:
		return nil, fmt.Errorf("%w: unsupported question type %q", util.ErrInvalidArgument, qType)
	}
	if qType == model.MCQ && len(options) == 0 {
		return nil, fmt.Errorf("%w: MCQ questions need options", util.ErrInvalidArgument)
	}

	q := &model.QuizQuestion{QuizID: quizID, Type: qType, Question: question, Answer: answer}
	if err := s.store.CreateQuestion(q); err != nil {
		return nil, err
	}
	for _, opt := range options {
		o := &model.QuizOption{QuestionID: q.ID, Text: opt.Text, IsCorrect: opt.IsCorrect}
		if err := s.store.CreateOption(o); err != nil {
			return nil, err
		}
		q.Options = append(q.Options, *o)
	}
	return q, nil
}

func (s *CatalogService) DeleteQuizQuestion(id string) error {
	return s.store.DeleteQuestion(id)
}

func (s *CatalogService) AddQuizOption(questionID, text string, isCorrect bool) (*model.QuizOption, error) {
	o := &model.QuizOption{QuestionID: questionID, Text: text, IsCorrect: isCorrect}
	if err := s.store.CreateOption(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *CatalogService) DeleteQuizOption(id string) error {
	return s.store.DeleteOption(id)
}

// UploadVideoFile stores a raw video file and returns its serving URL
// for use as a video item's URL.
func (s *CatalogService) UploadVideoFile(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("%w: unsupported video extension %q", util.ErrInvalidArgument, ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := filepath.Join("training", "videos", model.GenerateUUID()+ext)
	return s.storage.Provider.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
}
