package services

import (
	"context"
	"fmt"

	"courseplatform/backend/access"
	"courseplatform/backend/models"
	"courseplatform/backend/slug"

	"gorm.io/gorm"
)

func lessonScope(topicID uint) slugScope {
	return slugScope{model: &models.Lesson{}, column: "topic_id", parent: topicID, label: slug.LabelLesson}
}

func withResources(db *gorm.DB) *gorm.DB {
	return db.Preload("Resources", func(db *gorm.DB) *gorm.DB { return db.Order("resources.sort_order ASC") })
}

func (s *ContentService) ListLessons(ctx context.Context, user *models.User, topicID uint) ([]models.Lesson, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindTopic, topicID, access.Read); err != nil {
		return nil, err
	}

	lessons := []models.Lesson{}
	err := withResources(s.db.WithContext(ctx)).
		Where("topic_id = ?", topicID).
		Order("sort_order ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

func (s *ContentService) GetLesson(ctx context.Context, user *models.User, id uint) (*models.Lesson, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindLesson, id, access.Read); err != nil {
		return nil, err
	}

	var lesson models.Lesson
	if err := withResources(s.db.WithContext(ctx)).First(&lesson, id).Error; err != nil {
		return nil, notFoundAs(err, "Lesson")
	}
	return &lesson, nil
}

func (s *ContentService) CreateLesson(ctx context.Context, user *models.User, in LessonInput) (*models.Lesson, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindTopic, in.TopicID, access.Write); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	lessonSlug, err := s.assignSlug(db, lessonScope(in.TopicID), in.Title, 0)
	if err != nil {
		return nil, err
	}

	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	} else if order, err = siblingCount(db, &models.Lesson{}, "topic_id", in.TopicID); err != nil {
		return nil, err
	}

	lesson := models.Lesson{
		TopicID:   in.TopicID,
		Title:     in.Title,
		Slug:      lessonSlug,
		ContentMD: in.ContentMD,
		IsVisible: boolOr(in.IsVisible, true),
		SortOrder: order,
	}
	if err := db.Create(&lesson).Error; err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return &lesson, nil
}

func (s *ContentService) UpdateLesson(ctx context.Context, user *models.User, id uint, in LessonUpdate) (*models.Lesson, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindLesson, id, access.Write); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var lesson models.Lesson
	if err := db.First(&lesson, id).Error; err != nil {
		return nil, notFoundAs(err, "Lesson")
	}

	changes := map[string]interface{}{}
	if in.Title != nil && *in.Title != lesson.Title {
		newSlug, err := s.assignSlug(db, lessonScope(lesson.TopicID), *in.Title, lesson.ID)
		if err != nil {
			return nil, err
		}
		changes["title"] = *in.Title
		changes["slug"] = newSlug
	}
	if in.ContentMD != nil {
		changes["content_md"] = *in.ContentMD
	}
	if in.IsVisible != nil {
		changes["is_visible"] = *in.IsVisible
	}
	if in.SortOrder != nil {
		changes["sort_order"] = *in.SortOrder
	}

	if len(changes) > 0 {
		if err := db.Model(&lesson).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update lesson: %w", err)
		}
		if err := db.First(&lesson, id).Error; err != nil {
			return nil, notFoundAs(err, "Lesson")
		}
	}
	return &lesson, nil
}

func (s *ContentService) DeleteLesson(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindLesson, id, access.Delete); err != nil {
		return err
	}
	return deleteByID(s.db.WithContext(ctx), &models.Lesson{}, id, "Lesson")
}

func (s *ContentService) ReorderLessons(ctx context.Context, user *models.User, items []OrderItem) error {
	return s.reorder(ctx, user, access.KindLesson, &models.Lesson{}, items)
}
