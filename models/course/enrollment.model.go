package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentCancelled = "CANCELLED"
	EnrollmentRefunded  = "REFUNDED"
)

// Enrollment tracks a user's enrollment in a course with aggregate progress
type Enrollment struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID           uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	AccessType         string     `json:"access_type" gorm:"default:'FULL'"` // FULL, TRIAL
	Status             string     `json:"status" gorm:"default:'ACTIVE'"`    // ACTIVE, COMPLETED, CANCELLED, REFUNDED
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"` // 0-100
	CompletedLessons   int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons       int        `json:"total_lessons" gorm:"default:0"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsDeleted          bool       `gorm:"default:false"`
}
