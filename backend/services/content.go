// Package services implements the course content hierarchy, the public read
// surface and user management on top of gorm.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courseplatform/backend/access"
	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/slug"

	"gorm.io/gorm"
)

// ContentService manages courses and their module/topic/lesson/resource
// subtrees. Every method authorizes the caller at course level.
type ContentService struct {
	db     *gorm.DB
	access *access.Checker
	now    func() time.Time
}

func NewContentService(db *gorm.DB, checker *access.Checker) *ContentService {
	return &ContentService{db: db, access: checker, now: time.Now}
}

// slugScope identifies where a slug must be unique.
type slugScope struct {
	model  interface{}
	column string // parent column, empty for global scope
	parent uint
	label  string
}

// assignSlug derives a slug from title and appends a millisecond timestamp
// when another row in scope already uses it. excludeID skips the row being
// renamed.
func (s *ContentService) assignSlug(db *gorm.DB, scope slugScope, title string, excludeID uint) (string, error) {
	now := s.now()
	base := slug.Make(title, scope.label, now)

	q := db.Model(scope.model).Where("slug = ?", base)
	if scope.column != "" {
		q = q.Where(scope.column+" = ?", scope.parent)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var taken int64
	if err := q.Count(&taken).Error; err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if taken > 0 {
		return slug.WithTimestamp(base, now), nil
	}
	return base, nil
}

// siblingCount is the sort order of a newly appended child.
func siblingCount(db *gorm.DB, model interface{}, column string, parent uint) (int, error) {
	var n int64
	if err := db.Model(model).Where(column+" = ?", parent).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count siblings: %w", err)
	}
	return int(n), nil
}

// reorder authorizes every item before applying any update, then writes the
// new positions one by one.
func (s *ContentService) reorder(ctx context.Context, user *models.User, kind access.Kind, model interface{}, items []OrderItem) error {
	for _, item := range items {
		if _, err := s.access.AuthorizeEntity(ctx, user, kind, item.ID, access.Write); err != nil {
			return err
		}
	}

	db := s.db.WithContext(ctx)
	for _, item := range items {
		if err := db.Model(model).Where("id = ?", item.ID).Update("sort_order", item.SortOrder).Error; err != nil {
			return fmt.Errorf("reorder %s %d: %w", kind, item.ID, err)
		}
	}
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func requireSuperAdmin(user *models.User) error {
	if user == nil {
		return apperr.ErrUnauthenticated
	}
	if !user.IsSuperAdmin() {
		return access.ErrInsufficientRole
	}
	return nil
}

func notFoundAs(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}
