package services

import (
	"context"
	"fmt"
	"strings"

	"courseplatform/backend/markdown"
	"courseplatform/backend/models"

	"gorm.io/gorm"
)

// PublicService is the anonymous read surface. An entity is exposed only when
// it and every ancestor are visible.
type PublicService struct {
	db     *gorm.DB
	render *LessonRenderer
}

func NewPublicService(db *gorm.DB, render *LessonRenderer) *PublicService {
	return &PublicService{db: db, render: render}
}

type Ref struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type Teacher struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Node struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

type PublicCourse struct {
	ID           uint                  `json:"id"`
	Title        string                `json:"title"`
	Slug         string                `json:"slug"`
	Description  string                `json:"description"`
	Language     string                `json:"language"`
	AcademicYear *string               `json:"academic_year"`
	Semester     *string               `json:"semester"`
	CoverImage   *string               `json:"cover_image"`
	SortOrder    int                   `json:"sort_order"`
	Teachers     []Teacher             `json:"teachers"`
	Groups       []models.ProgramGroup `json:"groups"`
	Modules      []Node                `json:"modules,omitempty"`
}

type ModulePage struct {
	Module Node   `json:"module"`
	Topics []Node `json:"topics"`
	Course Ref    `json:"course"`
}

type TopicPage struct {
	Topic   Node   `json:"topic"`
	Lessons []Node `json:"lessons"`
	Module  Ref    `json:"module"`
	Course  Ref    `json:"course"`
}

type PublicLesson struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	ContentMD   string            `json:"content_md"`
	ContentHTML string            `json:"content_html"`
	SortOrder   int               `json:"sort_order"`
	Resources   []models.Resource `json:"resources"`
}

type LessonPage struct {
	Lesson   PublicLesson `json:"lesson"`
	Siblings []Node       `json:"siblings"`
	Topic    Ref          `json:"topic"`
	Module   Ref          `json:"module"`
	Course   Ref          `json:"course"`
}

// SearchQuery filters the public course list. Empty fields do not filter.
type SearchQuery struct {
	Text  string
	Group string
	Year  string
}

func visible(db *gorm.DB) *gorm.DB {
	return db.Where("is_visible = ?", true)
}

func (s *PublicService) Courses(ctx context.Context) ([]PublicCourse, error) {
	return s.Search(ctx, SearchQuery{})
}

// Search matches title or description case-insensitively. A group filter
// narrows the courses but each course still lists all of its groups.
func (s *PublicService) Search(ctx context.Context, q SearchQuery) ([]PublicCourse, error) {
	db := s.db.WithContext(ctx)
	query := visible(db.Model(&models.Course{})).
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("program_groups.sort_order") }).
		Order("sort_order ASC").
		Order("title ASC")

	if text := strings.TrimSpace(q.Text); text != "" {
		term := "%" + strings.ToLower(text) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if q.Year != "" {
		query = query.Where("academic_year = ?", q.Year)
	}
	if q.Group != "" {
		query = query.Where("id IN (?)", db.Table("course_groups").
			Select("course_groups.course_id").
			Joins("JOIN program_groups ON program_groups.id = course_groups.program_group_id").
			Where("program_groups.slug = ?", q.Group))
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return s.publicCourses(ctx, courses)
}

func (s *PublicService) publicCourses(ctx context.Context, courses []models.Course) ([]PublicCourse, error) {
	ids := make([]uint, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	teachers, err := s.teachers(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PublicCourse, 0, len(courses))
	for _, c := range courses {
		out = append(out, toPublicCourse(c, teachers[c.ID]))
	}
	return out, nil
}

// teachers maps course id to its teacher-role staff.
func (s *PublicService) teachers(ctx context.Context, courseIDs []uint) (map[uint][]Teacher, error) {
	byCourse := map[uint][]Teacher{}
	if len(courseIDs) == 0 {
		return byCourse, nil
	}

	var rows []struct {
		CourseID uint
		ID       uint
		Name     string
	}
	err := s.db.WithContext(ctx).Table("course_staff").
		Select("course_staff.course_id, users.id, users.name").
		Joins("JOIN users ON users.id = course_staff.user_id").
		Where("course_staff.course_id IN ? AND course_staff.role = ?", courseIDs, models.StaffTeacher).
		Order("users.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}
	for _, r := range rows {
		byCourse[r.CourseID] = append(byCourse[r.CourseID], Teacher{ID: r.ID, Name: r.Name})
	}
	return byCourse, nil
}

func toPublicCourse(c models.Course, teachers []Teacher) PublicCourse {
	if teachers == nil {
		teachers = []Teacher{}
	}
	groups := c.Groups
	if groups == nil {
		groups = []models.ProgramGroup{}
	}
	return PublicCourse{
		ID:           c.ID,
		Title:        c.Title,
		Slug:         c.Slug,
		Description:  c.Description,
		Language:     c.Language,
		AcademicYear: c.AcademicYear,
		Semester:     c.Semester,
		CoverImage:   c.CoverImage,
		SortOrder:    c.SortOrder,
		Teachers:     teachers,
		Groups:       groups,
	}
}

func (s *PublicService) course(db *gorm.DB, slug string) (*models.Course, error) {
	var course models.Course
	if err := visible(db).Where("slug = ?", slug).Take(&course).Error; err != nil {
		return nil, notFoundAs(err, "Course")
	}
	return &course, nil
}

func (s *PublicService) module(db *gorm.DB, courseID uint, slug string) (*models.Module, error) {
	var module models.Module
	if err := visible(db).Where("course_id = ? AND slug = ?", courseID, slug).Take(&module).Error; err != nil {
		return nil, notFoundAs(err, "Module")
	}
	return &module, nil
}

func (s *PublicService) topic(db *gorm.DB, moduleID uint, slug string) (*models.Topic, error) {
	var topic models.Topic
	if err := visible(db).Where("module_id = ? AND slug = ?", moduleID, slug).Take(&topic).Error; err != nil {
		return nil, notFoundAs(err, "Topic")
	}
	return &topic, nil
}

// children lists the visible rows of model under parent as navigation nodes.
func children(db *gorm.DB, model interface{}, column string, parent uint) ([]Node, error) {
	nodes := []Node{}
	err := visible(db.Model(model)).
		Where(column+" = ?", parent).
		Order("sort_order ASC").
		Scan(&nodes).Error
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return nodes, nil
}

func (s *PublicService) Course(ctx context.Context, slug string) (*PublicCourse, error) {
	db := s.db.WithContext(ctx)
	var course models.Course
	err := visible(db).
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("program_groups.sort_order") }).
		Where("slug = ?", slug).
		Take(&course).Error
	if err != nil {
		return nil, notFoundAs(err, "Course")
	}

	teachers, err := s.teachers(ctx, []uint{course.ID})
	if err != nil {
		return nil, err
	}
	out := toPublicCourse(course, teachers[course.ID])
	if out.Modules, err = children(db, &models.Module{}, "course_id", course.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PublicService) Module(ctx context.Context, courseSlug, moduleSlug string) (*ModulePage, error) {
	db := s.db.WithContext(ctx)
	course, err := s.course(db, courseSlug)
	if err != nil {
		return nil, err
	}
	module, err := s.module(db, course.ID, moduleSlug)
	if err != nil {
		return nil, err
	}
	topics, err := children(db, &models.Topic{}, "module_id", module.ID)
	if err != nil {
		return nil, err
	}
	return &ModulePage{
		Module: Node{ID: module.ID, Title: module.Title, Slug: module.Slug, Description: module.Description, SortOrder: module.SortOrder},
		Topics: topics,
		Course: Ref{ID: course.ID, Title: course.Title, Slug: course.Slug},
	}, nil
}

func (s *PublicService) Topic(ctx context.Context, courseSlug, moduleSlug, topicSlug string) (*TopicPage, error) {
	db := s.db.WithContext(ctx)
	course, err := s.course(db, courseSlug)
	if err != nil {
		return nil, err
	}
	module, err := s.module(db, course.ID, moduleSlug)
	if err != nil {
		return nil, err
	}
	topic, err := s.topic(db, module.ID, topicSlug)
	if err != nil {
		return nil, err
	}
	lessons, err := children(db, &models.Lesson{}, "topic_id", topic.ID)
	if err != nil {
		return nil, err
	}
	return &TopicPage{
		Topic:   Node{ID: topic.ID, Title: topic.Title, Slug: topic.Slug, Description: topic.Description, SortOrder: topic.SortOrder},
		Lessons: lessons,
		Module:  Ref{ID: module.ID, Title: module.Title, Slug: module.Slug},
		Course:  Ref{ID: course.ID, Title: course.Title, Slug: course.Slug},
	}, nil
}

// Lesson returns a visible lesson with its visible resources, the visible
// lessons of the same topic and content_html rendered for display.
func (s *PublicService) Lesson(ctx context.Context, courseSlug, moduleSlug, topicSlug, lessonSlug string) (*LessonPage, error) {
	db := s.db.WithContext(ctx)
	course, err := s.course(db, courseSlug)
	if err != nil {
		return nil, err
	}
	module, err := s.module(db, course.ID, moduleSlug)
	if err != nil {
		return nil, err
	}
	topic, err := s.topic(db, module.ID, topicSlug)
	if err != nil {
		return nil, err
	}

	var lesson models.Lesson
	err = visible(db).
		Preload("Resources", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_visible = ?", true).Order("resources.sort_order ASC")
		}).
		Where("topic_id = ? AND slug = ?", topic.ID, lessonSlug).
		Take(&lesson).Error
	if err != nil {
		return nil, notFoundAs(err, "Lesson")
	}

	siblings, err := children(db, &models.Lesson{}, "topic_id", topic.ID)
	if err != nil {
		return nil, err
	}

	contentHTML, err := s.render.HTML(lesson.ContentMD, markdown.ModeDisplay)
	if err != nil {
		return nil, fmt.Errorf("render lesson %d: %w", lesson.ID, err)
	}

	resources := lesson.Resources
	if resources == nil {
		resources = []models.Resource{}
	}
	return &LessonPage{
		Lesson: PublicLesson{
			ID:          lesson.ID,
			Title:       lesson.Title,
			Slug:        lesson.Slug,
			ContentMD:   lesson.ContentMD,
			ContentHTML: contentHTML,
			SortOrder:   lesson.SortOrder,
			Resources:   resources,
		},
		Siblings: siblings,
		Topic:    Ref{ID: topic.ID, Title: topic.Title, Slug: topic.Slug},
		Module:   Ref{ID: module.ID, Title: module.Title, Slug: module.Slug},
		Course:   Ref{ID: course.ID, Title: course.Title, Slug: course.Slug},
	}, nil
}

func (s *PublicService) Groups(ctx context.Context) ([]models.ProgramGroup, error) {
	groups := []models.ProgramGroup{}
	if err := s.db.WithContext(ctx).Order("sort_order ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Years lists the distinct academic years of visible courses, newest first.
func (s *PublicService) Years(ctx context.Context) ([]string, error) {
	years := []string{}
	err := visible(s.db.WithContext(ctx).Model(&models.Course{})).
		Where("academic_year IS NOT NULL AND academic_year <> ''").
		Distinct().
		Order("academic_year DESC").
		Pluck("academic_year", &years).Error
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	return years, nil
}
