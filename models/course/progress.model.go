package course

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// LessonProgress tracks a single user's consumption of a single lesson.
// Video coverage is accounted in 10 second segments so rewatching the same
// span never inflates the percentage.
type LessonProgress struct {
	gorm.Model
	UserID               uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	LessonID             uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	CourseID             uint       `json:"course_id" gorm:"index;not null"`
	ModuleID             uint       `json:"module_id" gorm:"index;not null"`
	WatchedDuration      int        `json:"watched_duration" gorm:"default:0"`  // seconds
	LastWatchedTime      int        `json:"last_watched_time" gorm:"default:0"` // seconds, resume point
	TotalDuration        int        `json:"total_duration" gorm:"default:0"`
	ViewedSegments       string     `json:"viewed_segments" gorm:"type:text;default:'[]'"` // JSON array of segment indices
	CompletionPercentage float64    `json:"completion_percentage" gorm:"default:0"`
	IsCompleted          bool       `json:"is_completed" gorm:"default:false"`
	LastHeartbeatAt      *time.Time `json:"last_heartbeat_at"`
	IsDeleted            bool       `gorm:"default:false"`
}

// Segments decodes the viewed segment indices
func (p *LessonProgress) Segments() map[int]bool {
	set := make(map[int]bool)
	var indices []int
	if err := json.Unmarshal([]byte(p.ViewedSegments), &indices); err != nil {
		return set
	}
	for _, idx := range indices {
		set[idx] = true
	}
	return set
}

// SetSegments encodes the viewed segment indices back to the JSON column
func (p *LessonProgress) SetSegments(set map[int]bool) {
	indices := make([]int, 0, len(set))
	for idx := range set {
		indices = append(indices, idx)
	}
	data, _ := json.Marshal(indices)
	p.ViewedSegments = string(data)
}

// ModuleCompletion records whether a user has fully consumed a module.
// AssessmentPassed is written by the assessment submission flow and read by
// the completion evaluator when the module is assessment-gated.
type ModuleCompletion struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_completion_user_module"`
	ModuleID         uint       `json:"module_id" gorm:"not null;uniqueIndex:idx_completion_user_module"`
	CourseID         uint       `json:"course_id" gorm:"index;not null"`
	IsCompleted      bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt      *time.Time `json:"completed_at"`
	AssessmentPassed bool       `json:"assessment_passed" gorm:"default:false"`
	IsDeleted        bool       `gorm:"default:false"`
}
