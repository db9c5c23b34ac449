package services

import (
	"context"
	"errors"
	"fmt"

	"courseplatform/backend/access"
	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/slug"

	"gorm.io/gorm"
)

var courseSlugScope = slugScope{model: &models.Course{}, label: slug.LabelCourse}

func preloadCourse(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Staff", func(db *gorm.DB) *gorm.DB { return db.Order("course_staff.id") }).
		Preload("Staff.User").
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("program_groups.sort_order") })
}

// ListCourses returns every course for super_admin and the staffed courses
// for everyone else.
func (s *ContentService) ListCourses(ctx context.Context, user *models.User) ([]models.Course, error) {
	if user == nil {
		return nil, apperr.ErrUnauthenticated
	}

	q := preloadCourse(s.db.WithContext(ctx)).Order("sort_order ASC").Order("title ASC")
	if !user.IsSuperAdmin() {
		ids, err := s.access.CourseIDsFor(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.Course{}, nil
		}
		q = q.Where("id IN ?", ids)
	}

	courses := []models.Course{}
	if err := q.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns the course with staff, groups and modules in order.
func (s *ContentService) GetCourse(ctx context.Context, user *models.User, id uint) (*models.Course, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindCourse, id, access.Read); err != nil {
		return nil, err
	}

	var course models.Course
	err := preloadCourse(s.db.WithContext(ctx)).
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("modules.sort_order ASC") }).
		First(&course, id).Error
	if err != nil {
		return nil, notFoundAs(err, "Course")
	}
	return &course, nil
}

func (s *ContentService) loadGroups(db *gorm.DB, ids []uint) ([]models.ProgramGroup, error) {
	groups := []models.ProgramGroup{}
	if len(ids) == 0 {
		return groups, nil
	}
	if err := db.Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	if len(groups) != len(uniqueIDs(ids)) {
		return nil, apperr.InvalidFields(map[string]string{"group_ids": "exists"})
	}
	return groups, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// CreateCourse is reserved to super_admin. The slug is unique across all
// courses.
func (s *ContentService) CreateCourse(ctx context.Context, user *models.User, in CourseInput) (*models.Course, error) {
	if err := requireSuperAdmin(user); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	groups, err := s.loadGroups(db, in.GroupIDs)
	if err != nil {
		return nil, err
	}

	courseSlug, err := s.assignSlug(db, courseSlugScope, in.Title, 0)
	if err != nil {
		return nil, err
	}

	language := in.Language
	if language == "" {
		language = "bg"
	}

	course := models.Course{
		Title:        in.Title,
		Slug:         courseSlug,
		Description:  in.Description,
		Language:     language,
		AcademicYear: optionalString(in.AcademicYear),
		Semester:     optionalString(in.Semester),
		IsVisible:    in.IsVisible,
		SortOrder:    in.SortOrder,
		Groups:       groups,
	}
	if err := db.Create(&course).Error; err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &course, nil
}

// UpdateCourse applies a partial update. A changed title regenerates the slug.
func (s *ContentService) UpdateCourse(ctx context.Context, user *models.User, id uint, in CourseUpdate) (*models.Course, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindCourse, id, access.Manage); err != nil {
		return nil, err
	}

	var course models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&course, id).Error
		if err != nil {
			return notFoundAs(err, "Course")
		}

		changes := map[string]interface{}{}
		if in.Title != nil && *in.Title != course.Title {
			newSlug, err := s.assignSlug(tx, courseSlugScope, *in.Title, course.ID)
			if err != nil {
				return err
			}
			changes["title"] = *in.Title
			changes["slug"] = newSlug
		}
		if in.Description != nil {
			changes["description"] = *in.Description
		}
		if in.Language != nil {
			changes["language"] = *in.Language
		}
		if in.AcademicYear != nil {
			changes["academic_year"] = optionalString(*in.AcademicYear)
		}
		if in.Semester != nil {
			changes["semester"] = optionalString(*in.Semester)
		}
		if in.IsVisible != nil {
			changes["is_visible"] = *in.IsVisible
		}
		if in.SortOrder != nil {
			changes["sort_order"] = *in.SortOrder
		}
		if in.CoverImage != nil {
			changes["cover_image"] = optionalString(*in.CoverImage)
		}

		if len(changes) > 0 {
			if err := tx.Model(&course).Updates(changes).Error; err != nil {
				return fmt.Errorf("update course: %w", err)
			}
		}

		if in.GroupIDs != nil {
			var groups []models.ProgramGroup
			groups, err = s.loadGroups(tx, *in.GroupIDs)
			if err != nil {
				return err
			}
			assoc := tx.Model(&course).Association("Groups")
			if len(groups) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(groups)
			}
			if err != nil {
				return fmt.Errorf("replace course groups: %w", err)
			}
		}

		return preloadCourse(tx).First(&course, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse is reserved to super_admin and cascades to the whole subtree.
func (s *ContentService) DeleteCourse(ctx context.Context, user *models.User, id uint) error {
	if err := requireSuperAdmin(user); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&models.Course{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Course")
	}
	return nil
}

// ReorderCourses is reserved to super_admin.
func (s *ContentService) ReorderCourses(ctx context.Context, user *models.User, items []OrderItem) error {
	if err := requireSuperAdmin(user); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	for _, item := range items {
		if err := db.Model(&models.Course{}).Where("id = ?", item.ID).Update("sort_order", item.SortOrder).Error; err != nil {
			return fmt.Errorf("reorder course %d: %w", item.ID, err)
		}
	}
	return nil
}

// AddStaff creates an assignment or changes the role of an existing one.
// created reports which of the two happened.
func (s *ContentService) AddStaff(ctx context.Context, user *models.User, courseID uint, in StaffInput) (staff *models.CourseStaff, created bool, err error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindCourse, courseID, access.Manage); err != nil {
		return nil, false, err
	}

	db := s.db.WithContext(ctx)
	var member models.User
	if err := db.First(&member, in.UserID).Error; err != nil {
		return nil, false, notFoundAs(err, "User")
	}

	var entry models.CourseStaff
	err = db.Where("course_id = ? AND user_id = ?", courseID, in.UserID).Take(&entry).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.CourseStaff{CourseID: courseID, UserID: in.UserID, Role: in.Role}
		if err := db.Create(&entry).Error; err != nil {
			return nil, false, fmt.Errorf("add staff: %w", err)
		}
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("look up staff: %w", err)
	default:
		if err := db.Model(&entry).Update("role", in.Role).Error; err != nil {
			return nil, false, fmt.Errorf("update staff role: %w", err)
		}
	}

	entry.User = &member
	return &entry, created, nil
}

func (s *ContentService) RemoveStaff(ctx context.Context, user *models.User, courseID, userID uint) error {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindCourse, courseID, access.Manage); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&models.CourseStaff{})
	if res.Error != nil {
		return fmt.Errorf("remove staff: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Staff assignment")
	}
	return nil
}

// Stats counts content across the caller's courses for the dashboard.
type Stats struct {
	Courses   int64 `json:"courses"`
	Visible   int64 `json:"visible"`
	Hidden    int64 `json:"hidden"`
	Modules   int64 `json:"modules"`
	Topics    int64 `json:"topics"`
	Lessons   int64 `json:"lessons"`
	Resources int64 `json:"resources"`
}

func (s *ContentService) Stats(ctx context.Context, user *models.User) (*Stats, error) {
	if user == nil {
		return nil, apperr.ErrUnauthenticated
	}

	db := s.db.WithContext(ctx)
	scope := func(q *gorm.DB, column string) *gorm.DB { return q }
	if !user.IsSuperAdmin() {
		ids, err := s.access.CourseIDsFor(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &Stats{}, nil
		}
		scope = func(q *gorm.DB, column string) *gorm.DB { return q.Where(column+" IN ?", ids) }
	}

	stats := &Stats{}
	counts := []struct {
		dst *int64
		q   *gorm.DB
	}{
		{&stats.Courses, scope(db.Model(&models.Course{}), "courses.id")},
		{&stats.Visible, scope(db.Model(&models.Course{}).Where("is_visible = ?", true), "courses.id")},
		{&stats.Modules, scope(db.Model(&models.Module{}), "modules.course_id")},
		{&stats.Topics, scope(db.Model(&models.Topic{}).
			Joins("JOIN modules ON modules.id = topics.module_id"), "modules.course_id")},
		{&stats.Lessons, scope(db.Model(&models.Lesson{}).
			Joins("JOIN topics ON topics.id = lessons.topic_id").
			Joins("JOIN modules ON modules.id = topics.module_id"), "modules.course_id")},
		{&stats.Resources, scope(db.Model(&models.Resource{}).
			Joins("JOIN lessons ON lessons.id = resources.lesson_id").
			Joins("JOIN topics ON topics.id = lessons.topic_id").
			Joins("JOIN modules ON modules.id = topics.module_id"), "modules.course_id")},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("dashboard stats: %w", err)
		}
	}
	stats.Hidden = stats.Courses - stats.Visible
	return stats, nil
}
