package access

import (
	"context"
	"errors"
	"fmt"

	"courseplatform/backend/apperr"
	"courseplatform/backend/models"

	"gorm.io/gorm"
)

// Kind names a level of the content hierarchy.
type Kind string

const (
	KindCourse   Kind = "course"
	KindModule   Kind = "module"
	KindTopic    Kind = "topic"
	KindLesson   Kind = "lesson"
	KindResource Kind = "resource"
)

var entityNames = map[Kind]string{
	KindCourse:   "Course",
	KindModule:   "Module",
	KindTopic:    "Topic",
	KindLesson:   "Lesson",
	KindResource: "Resource",
}

// Checker resolves entities to their course and applies Decide against the
// course_staff table.
type Checker struct {
	db *gorm.DB
}

func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// StaffRole returns the user's role on the course, or "" when there is none.
func (ch *Checker) StaffRole(ctx context.Context, courseID, userID uint) (string, error) {
	var staff models.CourseStaff
	err := ch.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Take(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("look up course staff: %w", err)
	}
	return staff.Role, nil
}

// Authorize checks op on courseID for user. super_admin never touches the
// staff table.
func (ch *Checker) Authorize(ctx context.Context, user *models.User, courseID uint, op Operation) error {
	if user == nil {
		return apperr.ErrUnauthenticated
	}
	if user.IsSuperAdmin() {
		return nil
	}

	role, err := ch.StaffRole(ctx, courseID, user.ID)
	if err != nil {
		return err
	}
	return Decide(user.Role, role, op).Err()
}

// ResolveCourse walks from an entity up to its owning course id. A missing
// entity yields apperr.NotFoundError naming that entity.
func (ch *Checker) ResolveCourse(ctx context.Context, kind Kind, id uint) (uint, error) {
	db := ch.db.WithContext(ctx)

	var row struct {
		CourseID uint
	}

	var q *gorm.DB
	switch kind {
	case KindCourse:
		q = db.Table("courses").Select("courses.id AS course_id").Where("courses.id = ?", id)
	case KindModule:
		q = db.Table("modules").Select("modules.course_id").Where("modules.id = ?", id)
	case KindTopic:
		q = db.Table("topics").Select("modules.course_id").
			Joins("JOIN modules ON modules.id = topics.module_id").
			Where("topics.id = ?", id)
	case KindLesson:
		q = db.Table("lessons").Select("modules.course_id").
			Joins("JOIN topics ON topics.id = lessons.topic_id").
			Joins("JOIN modules ON modules.id = topics.module_id").
			Where("lessons.id = ?", id)
	case KindResource:
		q = db.Table("resources").Select("modules.course_id").
			Joins("JOIN lessons ON lessons.id = resources.lesson_id").
			Joins("JOIN topics ON topics.id = lessons.topic_id").
			Joins("JOIN modules ON modules.id = topics.module_id").
			Where("resources.id = ?", id)
	default:
		return 0, fmt.Errorf("unknown entity kind %q", kind)
	}

	err := q.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.NotFound(entityNames[kind])
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %s %d: %w", kind, id, err)
	}
	return row.CourseID, nil
}

// AuthorizeEntity resolves the entity first, so a missing entity is reported
// as not found before any permission outcome.
func (ch *Checker) AuthorizeEntity(ctx context.Context, user *models.User, kind Kind, id uint, op Operation) (uint, error) {
	if user == nil {
		return 0, apperr.ErrUnauthenticated
	}
	courseID, err := ch.ResolveCourse(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	if err := ch.Authorize(ctx, user, courseID, op); err != nil {
		return courseID, err
	}
	return courseID, nil
}

// CourseIDsFor lists the courses the user is staff on.
func (ch *Checker) CourseIDsFor(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := ch.db.WithContext(ctx).Model(&models.CourseStaff{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list staff courses: %w", err)
	}
	return ids, nil
}
