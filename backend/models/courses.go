package models

import "time"

// Per-course staff roles
const (
	StaffTeacher   = "teacher"
	StaffAssistant = "assistant"
)

const (
	SemesterWinter = "winter"
	SemesterSummer = "summer"
)

type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:500;not null" json:"title"`
	Slug         string         `gorm:"size:500;not null;uniqueIndex" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	Language     string         `gorm:"size:10;not null" json:"language"`
	CoverImage   *string        `gorm:"size:1000" json:"cover_image"`
	AcademicYear *string        `gorm:"size:20" json:"academic_year"`
	Semester     *string        `gorm:"size:10" json:"semester"`
	IsVisible    bool           `gorm:"not null" json:"is_visible"`
	SortOrder    int            `gorm:"not null" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Staff        []CourseStaff  `gorm:"constraint:OnDelete:CASCADE" json:"staff,omitempty"`
	Modules      []Module       `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	Groups       []ProgramGroup `gorm:"many2many:course_groups;constraint:OnDelete:CASCADE" json:"groups,omitempty"`
}

// CourseStaff assigns a user a role on one course. A user holds at most one
// role per course.
type CourseStaff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_course_staff_pair" json:"course_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_course_staff_pair" json:"user_id"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseStaff) TableName() string {
	return "course_staff"
}

type ProgramGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// CourseGroup is the course_groups join row maintained through Course.Groups.
type CourseGroup struct {
	CourseID       uint `gorm:"primaryKey"`
	ProgramGroupID uint `gorm:"primaryKey"`
}

func (CourseGroup) TableName() string {
	return "course_groups"
}
