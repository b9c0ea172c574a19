package course

import "gorm.io/gorm"

// Module represents an ordered section of a course. The (course_id, order)
// pair is unique at the database level; soft-deleted rows stay in the index
// with their old order value, so reordering has to evict them explicitly.
type Module struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"index;not null;uniqueIndex:idx_modules_course_order"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Order         int    `json:"order" gorm:"column:sort_order;default:0;uniqueIndex:idx_modules_course_order"`
	HasAssessment bool   `json:"has_assessment" gorm:"default:false"`
	Status        string `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, HIDDEN
}
