package model

// ItemKind discriminates the three learning item kinds a progress event
// can reference.
type ItemKind string

const (
	KindFlashcard ItemKind = "FLASHCARD"
	KindVideo     ItemKind = "VIDEO"
	KindQuiz      ItemKind = "QUIZ"
)

type QuestionType string

const (
	MCQ        QuestionType = "MCQ"
	Subjective QuestionType = "SUBJECTIVE"
)

// TrainingModule is a role-scoped unit of the training catalog. The
// progress engine treats it as read-only; authoring happens through the
// admin endpoints.
// swagger:model TrainingModule
type TrainingModule struct {
	UUIDBase
	Title      string      `gorm:"size:255;not null" json:"title"`
	Role       UserRole    `gorm:"type:enum('CITIZEN','WORKER');not null;index" json:"role"`
	Flashcards []Flashcard `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"flashcards"`
	Videos     []Video     `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"videos"`
	Quizzes    []Quiz      `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"quizzes"`
}

func (TrainingModule) TableName() string {
	return "training_modules"
}

// swagger:model Flashcard
type Flashcard struct {
	UUIDBase
	ModuleID string `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// swagger:model Video
type Video struct {
	UUIDBase
	ModuleID string `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	URL      string `gorm:"size:512;not null" json:"url"`
}

func (Video) TableName() string {
	return "videos"
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	ModuleID  string         `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion is either MCQ (graded against its options) or SUBJECTIVE
// (carries a reference answer, not machine graded).
// swagger:model QuizQuestion
type QuizQuestion struct {
	UUIDBase
	QuizID   string       `gorm:"type:varchar(36);index;not null" json:"quizId"`
	Type     QuestionType `gorm:"type:enum('MCQ','SUBJECTIVE');default:'MCQ'" json:"type"`
	Question string       `gorm:"type:text;not null" json:"question"`
	Answer   string       `gorm:"type:text" json:"answer,omitempty"`
	Options  []QuizOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// swagger:model QuizOption
type QuizOption struct {
	UUIDBase
	QuestionID string `gorm:"type:varchar(36);index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (QuizOption) TableName() string {
	return "quiz_options"
}
