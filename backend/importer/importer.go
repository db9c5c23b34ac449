// Package importer ingests a module/topic/lesson tree into a course in a
// single transaction.
package importer

import (
	"context"
	"fmt"
	"time"

	"courseplatform/backend/access"
	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/slug"
	"courseplatform/backend/utils"

	"gorm.io/gorm"
)

type Lesson struct {
	Title     string `json:"title" validate:"required,max=500"`
	ContentMD string `json:"content_md"`
	SortOrder int    `json:"sort_order"`
}

type Topic struct {
	Title     string   `json:"title" validate:"required,max=500"`
	SortOrder int      `json:"sort_order"`
	Lessons   []Lesson `json:"lessons" validate:"dive"`
}

type Module struct {
	Title     string  `json:"title" validate:"required,max=500"`
	SortOrder int     `json:"sort_order"`
	Topics    []Topic `json:"topics" validate:"dive"`
}

type Payload struct {
	Modules []Module `json:"modules" validate:"dive"`
}

type Counts struct {
	Modules int `json:"modules"`
	Topics  int `json:"topics"`
	Lessons int `json:"lessons"`
}

var ErrEmptyPayload = apperr.BadRequest("Nothing to import")

// Validate rejects an empty or malformed payload.
func (p *Payload) Validate() error {
	if p == nil || len(p.Modules) == 0 {
		return ErrEmptyPayload
	}
	if errs := utils.ValidateStruct(p); errs != nil {
		return apperr.InvalidFields(errs)
	}
	return nil
}

type Importer struct {
	db     *gorm.DB
	access *access.Checker
	now    func() time.Time
}

func New(db *gorm.DB, checker *access.Checker) *Importer {
	return &Importer{db: db, access: checker, now: time.Now}
}

// Import appends the payload's modules after the course's existing ones.
// The course must exist and the caller must be allowed to manage it; the
// payload is validated before anything is written. Any failure rolls back
// every row of the call.
func (im *Importer) Import(ctx context.Context, user *models.User, courseID uint, p *Payload) (Counts, error) {
	if _, err := im.access.AuthorizeEntity(ctx, user, access.KindCourse, courseID, access.Manage); err != nil {
		return Counts{}, err
	}
	if err := p.Validate(); err != nil {
		return Counts{}, err
	}

	var counts Counts
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		counts, err = im.write(tx, courseID, p.Modules)
		return err
	})
	if err != nil {
		return Counts{}, fmt.Errorf("import into course %d: %w", courseID, err)
	}
	return counts, nil
}

func (im *Importer) write(tx *gorm.DB, courseID uint, modules []Module) (Counts, error) {
	var counts Counts

	var existing []string
	if err := tx.Model(&models.Module{}).Where("course_id = ?", courseID).Pluck("slug", &existing).Error; err != nil {
		return counts, fmt.Errorf("load module slugs: %w", err)
	}
	offset := len(existing)
	moduleSlugs := slug.NewTracker(existing...)
	now := im.now()

	for _, md := range modules {
		module := models.Module{
			CourseID:  courseID,
			Title:     md.Title,
			Slug:      moduleSlugs.Claim(slug.Make(md.Title, slug.LabelModule, now)),
			IsVisible: true,
			SortOrder: offset + md.SortOrder,
		}
		if err := tx.Create(&module).Error; err != nil {
			return counts, fmt.Errorf("create module %q: %w", md.Title, err)
		}
		counts.Modules++

		topicSlugs := slug.NewTracker()
		for _, td := range md.Topics {
			topic := models.Topic{
				ModuleID:  module.ID,
				Title:     td.Title,
				Slug:      topicSlugs.Claim(slug.Make(td.Title, slug.LabelTopic, now)),
				IsVisible: true,
				SortOrder: td.SortOrder,
			}
			if err := tx.Create(&topic).Error; err != nil {
				return counts, fmt.Errorf("create topic %q: %w", td.Title, err)
			}
			counts.Topics++

			lessonSlugs := slug.NewTracker()
			for _, ld := range td.Lessons {
				lesson := models.Lesson{
					TopicID:   topic.ID,
					Title:     ld.Title,
					Slug:      lessonSlugs.Claim(slug.Make(ld.Title, slug.LabelLesson, now)),
					ContentMD: ld.ContentMD,
					IsVisible: true,
					SortOrder: ld.SortOrder,
				}
				if err := tx.Create(&lesson).Error; err != nil {
					return counts, fmt.Errorf("create lesson %q: %w", ld.Title, err)
				}
				counts.Lessons++
			}
		}
	}
	return counts, nil
}
