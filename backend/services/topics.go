package services

import (
	"context"
	"fmt"

	"courseplatform/backend/access"
	"courseplatform/backend/models"
	"courseplatform/backend/slug"

	"gorm.io/gorm"
)

func topicScope(moduleID uint) slugScope {
	return slugScope{model: &models.Topic{}, column: "module_id", parent: moduleID, label: slug.LabelTopic}
}

func (s *ContentService) ListTopics(ctx context.Context, user *models.User, moduleID uint) ([]models.Topic, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindModule, moduleID, access.Read); err != nil {
		return nil, err
	}

	topics := []models.Topic{}
	err := s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "topic_id", "title", "slug", "is_visible", "sort_order").Order("lessons.sort_order ASC")
		}).
		Where("module_id = ?", moduleID).
		Order("sort_order ASC").
		Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (s *ContentService) GetTopic(ctx context.Context, user *models.User, id uint) (*models.Topic, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindTopic, id, access.Read); err != nil {
		return nil, err
	}

	var topic models.Topic
	err := s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("lessons.sort_order ASC") }).
		First(&topic, id).Error
	if err != nil {
		return nil, notFoundAs(err, "Topic")
	}
	return &topic, nil
}

func (s *ContentService) CreateTopic(ctx context.Context, user *models.User, in TopicInput) (*models.Topic, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindModule, in.ModuleID, access.Write); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	topicSlug, err := s.assignSlug(db, topicScope(in.ModuleID), in.Title, 0)
	if err != nil {
		return nil, err
	}

	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	} else if order, err = siblingCount(db, &models.Topic{}, "module_id", in.ModuleID); err != nil {
		return nil, err
	}

	topic := models.Topic{
		ModuleID:    in.ModuleID,
		Title:       in.Title,
		Slug:        topicSlug,
		Description: in.Description,
		IsVisible:   boolOr(in.IsVisible, true),
		SortOrder:   order,
	}
	if err := db.Create(&topic).Error; err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return &topic, nil
}

func (s *ContentService) UpdateTopic(ctx context.Context, user *models.User, id uint, in TopicUpdate) (*models.Topic, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindTopic, id, access.Write); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var topic models.Topic
	if err := db.First(&topic, id).Error; err != nil {
		return nil, notFoundAs(err, "Topic")
	}

	changes := map[string]interface{}{}
	if in.Title != nil && *in.Title != topic.Title {
		newSlug, err := s.assignSlug(db, topicScope(topic.ModuleID), *in.Title, topic.ID)
		if err != nil {
			return nil, err
		}
		changes["title"] = *in.Title
		changes["slug"] = newSlug
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	if in.IsVisible != nil {
		changes["is_visible"] = *in.IsVisible
	}
	if in.SortOrder != nil {
		changes["sort_order"] = *in.SortOrder
	}

	if len(changes) > 0 {
		if err := db.Model(&topic).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update topic: %w", err)
		}
		if err := db.First(&topic, id).Error; err != nil {
			return nil, notFoundAs(err, "Topic")
		}
	}
	return &topic, nil
}

func (s *ContentService) DeleteTopic(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindTopic, id, access.Delete); err != nil {
		return err
	}
	return deleteByID(s.db.WithContext(ctx), &models.Topic{}, id, "Topic")
}

func (s *ContentService) ReorderTopics(ctx context.Context, user *models.User, items []OrderItem) error {
	return s.reorder(ctx, user, access.KindTopic, &models.Topic{}, items)
}
