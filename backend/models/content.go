package models

import "time"

// Resource types
const (
	ResourcePDF    = "pdf"
	ResourceVideo  = "video"
	ResourceGitHub = "github"
	ResourceCode   = "code"
	ResourceLink   = "link"
	ResourceFile   = "file"
)

type Module struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;uniqueIndex:idx_modules_course_slug" json:"course_id"`
	Title       string    `gorm:"size:500;not null" json:"title"`
	Slug        string    `gorm:"size:500;not null;uniqueIndex:idx_modules_course_slug" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	IsVisible   bool      `gorm:"not null" json:"is_visible"`
	SortOrder   int       `gorm:"not null" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Topics      []Topic   `gorm:"constraint:OnDelete:CASCADE" json:"topics,omitempty"`
}

type Topic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ModuleID    uint      `gorm:"not null;uniqueIndex:idx_topics_module_slug" json:"module_id"`
	Title       string    `gorm:"size:500;not null" json:"title"`
	Slug        string    `gorm:"size:500;not null;uniqueIndex:idx_topics_module_slug" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	IsVisible   bool      `gorm:"not null" json:"is_visible"`
	SortOrder   int       `gorm:"not null" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Lessons     []Lesson  `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

type Lesson struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TopicID   uint       `gorm:"not null;uniqueIndex:idx_lessons_topic_slug" json:"topic_id"`
	Title     string     `gorm:"size:500;not null" json:"title"`
	Slug      string     `gorm:"size:500;not null;uniqueIndex:idx_lessons_topic_slug" json:"slug"`
	ContentMD string     `gorm:"column:content_md;type:text" json:"content_md"`
	IsVisible bool       `gorm:"not null" json:"is_visible"`
	SortOrder int        `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Resources []Resource `gorm:"constraint:OnDelete:CASCADE" json:"resources,omitempty"`
}

type Resource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LessonID  uint      `gorm:"not null;index" json:"lesson_id"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	Title     string    `gorm:"size:500;not null" json:"title"`
	URL       *string   `gorm:"type:text" json:"url"`
	FilePath  *string   `gorm:"size:1000" json:"file_path"`
	EmbedCode *string   `gorm:"type:text" json:"embed_code"`
	Language  *string   `gorm:"size:50" json:"language"`
	IsVisible bool      `gorm:"not null" json:"is_visible"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&LoginHistory{},
		&ProgramGroup{},
		&Course{},
		&CourseStaff{},
		&Module{},
		&Topic{},
		&Lesson{},
		&Resource{},
	}
}
