package services

// OrderItem is one entry of a batch reorder.
type OrderItem struct {
	ID        uint `json:"id" validate:"required"`
	SortOrder int  `json:"sort_order" validate:"min=0"`
}

type ReorderInput struct {
	Orders []OrderItem `json:"orders" validate:"required,dive"`
}

type CourseInput struct {
	Title        string `json:"title" validate:"required,max=500"`
	Description  string `json:"description"`
	Language     string `json:"language" validate:"omitempty,max=10"`
	AcademicYear string `json:"academic_year" validate:"omitempty,max=20"`
	Semester     string `json:"semester" validate:"omitempty,oneof=winter summer"`
	IsVisible    bool   `json:"is_visible"`
	SortOrder    int    `json:"sort_order"`
	GroupIDs     []uint `json:"group_ids"`
}

// CourseUpdate lists every mutable course field. Nil leaves the stored value;
// an empty AcademicYear or Semester clears it.
type CourseUpdate struct {
	Title        *string `json:"title" validate:"omitnil,min=1,max=500"`
	Description  *string `json:"description"`
	Language     *string `json:"language" validate:"omitnil,max=10"`
	AcademicYear *string `json:"academic_year" validate:"omitnil,max=20"`
	Semester     *string `json:"semester" validate:"omitnil,oneof='' winter summer"`
	IsVisible    *bool   `json:"is_visible"`
	SortOrder    *int    `json:"sort_order"`
	CoverImage   *string `json:"cover_image" validate:"omitnil,max=1000"`
	GroupIDs     *[]uint `json:"group_ids"`
}

type StaffInput struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=teacher assistant"`
}

type ModuleInput struct {
	CourseID    uint   `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description"`
	IsVisible   *bool  `json:"is_visible"`
	SortOrder   *int   `json:"sort_order" validate:"omitnil,min=0"`
}

type ModuleUpdate struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=500"`
	Description *string `json:"description"`
	IsVisible   *bool   `json:"is_visible"`
	SortOrder   *int    `json:"sort_order" validate:"omitnil,min=0"`
}

type TopicInput struct {
	ModuleID    uint   `json:"module_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description"`
	IsVisible   *bool  `json:"is_visible"`
	SortOrder   *int   `json:"sort_order" validate:"omitnil,min=0"`
}

type TopicUpdate struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=500"`
	Description *string `json:"description"`
	IsVisible   *bool   `json:"is_visible"`
	SortOrder   *int    `json:"sort_order" validate:"omitnil,min=0"`
}

type LessonInput struct {
	TopicID   uint   `json:"topic_id" validate:"required"`
	Title     string `json:"title" validate:"required,max=500"`
	ContentMD string `json:"content_md"`
	IsVisible *bool  `json:"is_visible"`
	SortOrder *int   `json:"sort_order" validate:"omitnil,min=0"`
}

type LessonUpdate struct {
	Title     *string `json:"title" validate:"omitnil,min=1,max=500"`
	ContentMD *string `json:"content_md"`
	IsVisible *bool   `json:"is_visible"`
	SortOrder *int    `json:"sort_order" validate:"omitnil,min=0"`
}

// ResourceInput is bound from JSON or multipart form fields.
type ResourceInput struct {
	LessonID  uint   `json:"lesson_id" form:"lesson_id" validate:"required"`
	Type      string `json:"type" form:"type" validate:"required,oneof=pdf video github code link file"`
	Title     string `json:"title" form:"title" validate:"required,max=500"`
	URL       string `json:"url" form:"url" validate:"omitempty,max=2000"`
	EmbedCode string `json:"embed_code" form:"embed_code"`
	Language  string `json:"language" form:"language" validate:"omitempty,max=50"`
	IsVisible *bool  `json:"is_visible" form:"is_visible"`
	SortOrder *int   `json:"sort_order" form:"sort_order" validate:"omitnil,min=0"`
	// FilePath is set by the upload handler, never by the client.
	FilePath string `json:"-" form:"-"`
}

type ResourceUpdate struct {
	Type      *string `json:"type" validate:"omitnil,oneof=pdf video github code link file"`
	Title     *string `json:"title" validate:"omitnil,min=1,max=500"`
	URL       *string `json:"url" validate:"omitnil,max=2000"`
	EmbedCode *string `json:"embed_code"`
	Language  *string `json:"language" validate:"omitnil,max=50"`
	IsVisible *bool   `json:"is_visible"`
	SortOrder *int    `json:"sort_order" validate:"omitnil,min=0"`
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=255"`
	Role     string `json:"role" validate:"required,oneof=admin assistant"`
}

type UserUpdate struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=255"`
	Role     *string `json:"role" validate:"omitnil,oneof=admin assistant"`
	IsActive *bool   `json:"is_active"`
}
