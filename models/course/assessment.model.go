package course

import "gorm.io/gorm"

// Submission statuses
const (
	SubmissionPassed = "PASSED"
	SubmissionFailed = "FAILED"
)

// Assessment is an MCQ quiz gating a module
type Assessment struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	ModuleID     uint   `json:"module_id" gorm:"index;not null"`
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score" gorm:"default:70"` // percent
	IsMandatory  bool   `json:"is_mandatory" gorm:"default:true"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// AssessmentQuestion is a single multiple choice question
type AssessmentQuestion struct {
	gorm.Model
	AssessmentID uint   `json:"assessment_id" gorm:"index;not null"`
	Prompt       string `json:"prompt" gorm:"type:text"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// AssessmentOption represents an option for a question
type AssessmentOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// AssessmentSubmission represents a graded attempt at an assessment
type AssessmentSubmission struct {
	gorm.Model
	UserID          uint   `json:"user_id" gorm:"index;not null"`
	AssessmentID    uint   `json:"assessment_id" gorm:"index;not null"`
	SelectedOptions string `json:"selected_options"` // JSON map of question ID -> option IDs
	Score           int    `json:"score"`            // percent
	Status          string `json:"status" gorm:"default:'FAILED'"` // PASSED, FAILED
	AttemptNumber   int    `json:"attempt_number" gorm:"default:1"`
	IsDeleted       bool   `gorm:"default:false"`
}
