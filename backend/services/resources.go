package services

import (
	"context"
	"fmt"

	"courseplatform/backend/access"
	"courseplatform/backend/models"
)

func (s *ContentService) ListResources(ctx context.Context, user *models.User, lessonID uint) ([]models.Resource, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindLesson, lessonID, access.Read); err != nil {
		return nil, err
	}

	resources := []models.Resource{}
	err := s.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("sort_order ASC").
		Find(&resources).Error
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// CreateResource attaches a resource to a lesson. Sort order defaults to the
// number of existing resources.
// AuthorizeUpload checks that user may attach resources to the lesson.
// Handlers call it before anything is written to the upload store.
func (s *ContentService) AuthorizeUpload(ctx context.Context, user *models.User, lessonID uint) error {
	_, err := s.access.AuthorizeEntity(ctx, user, access.KindLesson, lessonID, access.Write)
	return err
}

func (s *ContentService) CreateResource(ctx context.Context, user *models.User, in ResourceInput) (*models.Resource, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindLesson, in.LessonID, access.Write); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	} else {
		n, err := siblingCount(db, &models.Resource{}, "lesson_id", in.LessonID)
		if err != nil {
			return nil, err
		}
		order = n
	}

	resource := models.Resource{
		LessonID:  in.LessonID,
		Type:      in.Type,
		Title:     in.Title,
		URL:       optionalString(in.URL),
		FilePath:  optionalString(in.FilePath),
		EmbedCode: optionalString(in.EmbedCode),
		Language:  optionalString(in.Language),
		IsVisible: boolOr(in.IsVisible, true),
		SortOrder: order,
	}
	if err := db.Create(&resource).Error; err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return &resource, nil
}

func (s *ContentService) UpdateResource(ctx context.Context, user *models.User, id uint, in ResourceUpdate) (*models.Resource, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindResource, id, access.Write); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var resource models.Resource
	if err := db.First(&resource, id).Error; err != nil {
		return nil, notFoundAs(err, "Resource")
	}

	changes := map[string]interface{}{}
	if in.Type != nil {
		changes["type"] = *in.Type
	}
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.URL != nil {
		changes["url"] = optionalString(*in.URL)
	}
	if in.EmbedCode != nil {
		changes["embed_code"] = optionalString(*in.EmbedCode)
	}
	if in.Language != nil {
		changes["language"] = optionalString(*in.Language)
	}
	if in.IsVisible != nil {
		changes["is_visible"] = *in.IsVisible
	}
	if in.SortOrder != nil {
		changes["sort_order"] = *in.SortOrder
	}

	if len(changes) > 0 {
		if err := db.Model(&resource).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update resource: %w", err)
		}
		if err := db.First(&resource, id).Error; err != nil {
			return nil, notFoundAs(err, "Resource")
		}
	}
	return &resource, nil
}

// DeleteResource returns the removed row so the caller can clean up its file.
func (s *ContentService) DeleteResource(ctx context.Context, user *models.User, id uint) (*models.Resource, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindResource, id, access.Delete); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var resource models.Resource
	if err := db.First(&resource, id).Error; err != nil {
		return nil, notFoundAs(err, "Resource")
	}
	if err := deleteByID(db, &models.Resource{}, id, "Resource"); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (s *ContentService) ReorderResources(ctx context.Context, user *models.User, items []OrderItem) error {
	return s.reorder(ctx, user, access.KindResource, &models.Resource{}, items)
}
