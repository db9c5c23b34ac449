package services

import (
	"context"
	"fmt"

	"courseplatform/backend/access"
	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/slug"

	"gorm.io/gorm"
)

func moduleScope(courseID uint) slugScope {
	return slugScope{model: &models.Module{}, column: "course_id", parent: courseID, label: slug.LabelModule}
}

// ListModules returns a course's modules with their topics, by sort order.
func (s *ContentService) ListModules(ctx context.Context, user *models.User, courseID uint) ([]models.Module, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindCourse, courseID, access.Read); err != nil {
		return nil, err
	}

	modules := []models.Module{}
	err := s.db.WithContext(ctx).
		Preload("Topics", func(db *gorm.DB) *gorm.DB { return db.Order("topics.sort_order ASC") }).
		Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Find(&modules).Error
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return modules, nil
}

func (s *ContentService) GetModule(ctx context.Context, user *models.User, id uint) (*models.Module, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindModule, id, access.Read); err != nil {
		return nil, err
	}

	var module models.Module
	err := s.db.WithContext(ctx).
		Preload("Topics", func(db *gorm.DB) *gorm.DB { return db.Order("topics.sort_order ASC") }).
		First(&module, id).Error
	if err != nil {
		return nil, notFoundAs(err, "Module")
	}
	return &module, nil
}

// CreateModule appends a module to its course unless a sort order is given.
func (s *ContentService) CreateModule(ctx context.Context, user *models.User, in ModuleInput) (*models.Module, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindCourse, in.CourseID, access.Write); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	moduleSlug, err := s.assignSlug(db, moduleScope(in.CourseID), in.Title, 0)
	if err != nil {
		return nil, err
	}

	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	} else if order, err = siblingCount(db, &models.Module{}, "course_id", in.CourseID); err != nil {
		return nil, err
	}

	module := models.Module{
		CourseID:    in.CourseID,
		Title:       in.Title,
		Slug:        moduleSlug,
		Description: in.Description,
		IsVisible:   boolOr(in.IsVisible, true),
		SortOrder:   order,
	}
	if err := db.Create(&module).Error; err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	return &module, nil
}

func (s *ContentService) UpdateModule(ctx context.Context, user *models.User, id uint, in ModuleUpdate) (*models.Module, error) {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindModule, id, access.Write); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var module models.Module
	if err := db.First(&module, id).Error; err != nil {
		return nil, notFoundAs(err, "Module")
	}

	changes := map[string]interface{}{}
	if in.Title != nil && *in.Title != module.Title {
		newSlug, err := s.assignSlug(db, moduleScope(module.CourseID), *in.Title, module.ID)
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
		if err := db.Model(&module).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update module: %w", err)
		}
		if err := db.First(&module, id).Error; err != nil {
			return nil, notFoundAs(err, "Module")
		}
	}
	return &module, nil
}

// DeleteModule requires teacher rights and cascades to topics and lessons.
func (s *ContentService) DeleteModule(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.access.AuthorizeEntity(ctx, user, access.KindModule, id, access.Delete); err != nil {
		return err
	}
	return deleteByID(s.db.WithContext(ctx), &models.Module{}, id, "Module")
}

func (s *ContentService) ReorderModules(ctx context.Context, user *models.User, items []OrderItem) error {
	return s.reorder(ctx, user, access.KindModule, &models.Module{}, items)
}

func deleteByID(db *gorm.DB, model interface{}, id uint, entity string) error {
	res := db.Delete(model, id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}
