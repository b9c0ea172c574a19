package course

import "gorm.io/gorm"

// Lesson types
const (
	LessonTypeVideo   = "VIDEO"
	LessonTypeArticle = "ARTICLE"
)

// Lesson represents a single video or article unit inside a module
type Lesson struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	ModuleID      uint   `json:"module_id" gorm:"index;not null"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Type          string `json:"type" gorm:"default:'VIDEO'"` // VIDEO, ARTICLE
	ArticleBody   string `json:"article_body" gorm:"type:text"`
	VideoURL      string `json:"video_url"`
	VideoDuration int    `json:"video_duration" gorm:"default:0"` // seconds
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
	IsPreview     bool   `json:"is_preview" gorm:"default:false"`
	IsPublished   bool   `json:"is_published" gorm:"default:false"`
	IsDeleted     bool   `gorm:"default:false"`
}
