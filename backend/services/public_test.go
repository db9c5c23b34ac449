package services

import (
	"context"
	"strings"
	"testing"

	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicVisibilityChain(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewPublicService(db, NewLessonRenderer())
	tree := testutil.CreateTree(t, db, "algebra")

	page, err := svc.Lesson(ctx, "algebra", "module", "topic", "lesson")
	require.NoError(t, err)
	assert.Equal(t, "lesson", page.Lesson.Slug)
	assert.Len(t, page.Siblings, 1)
	assert.Equal(t, "module", page.Module.Slug)

	require.NoError(t, db.Model(tree.Module).Update("is_visible", false).Error)

	_, err = svc.Module(ctx, "algebra", "module")
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.Topic(ctx, "algebra", "module", "topic")
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.Lesson(ctx, "algebra", "module", "topic", "lesson")
	assert.True(t, apperr.IsNotFound(err))

	course, err := svc.Course(ctx, "algebra")
	require.NoError(t, err)
	assert.Empty(t, course.Modules)

	var topic models.Topic
	require.NoError(t, db.First(&topic, tree.Topic.ID).Error)
	assert.True(t, topic.IsVisible, "stored flags stay untouched")

	require.NoError(t, db.Model(tree.Course).Update("is_visible", false).Error)
	_, err = svc.Course(ctx, "algebra")
	assert.True(t, apperr.IsNotFound(err))
}

func TestPublicLessonContent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewPublicService(db, NewLessonRenderer())
	tree := testutil.CreateTree(t, db, "web")

	body := "# Intro\n\n```html live\n<b>hi</b>\n```\n\n```css\nb { color: red; }\n```\n"
	require.NoError(t, db.Model(tree.Lesson).Update("content_md", body).Error)
	hidden := models.Resource{LessonID: tree.Lesson.ID, Type: models.ResourceLink, Title: "Hidden", IsVisible: false, SortOrder: 1}
	require.NoError(t, db.Create(&hidden).Error)

	page, err := svc.Lesson(ctx, "web", "module", "topic", "lesson")
	require.NoError(t, err)
	assert.Equal(t, body, page.Lesson.ContentMD)
	assert.Contains(t, page.Lesson.ContentHTML, `sandbox="allow-scripts"`)
	assert.Contains(t, page.Lesson.ContentHTML, "code-run-btn")
	assert.Equal(t, 1, strings.Count(page.Lesson.ContentHTML, `id="live-preview-host"`))
	require.Len(t, page.Lesson.Resources, 1)
	assert.Equal(t, tree.Resource.ID, page.Lesson.Resources[0].ID)
}

func TestPublicSearch(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewPublicService(db, NewLessonRenderer())

	math := models.ProgramGroup{Name: "Math", Slug: "math", SortOrder: 0}
	cs := models.ProgramGroup{Name: "CS", Slug: "cs", SortOrder: 1}
	require.NoError(t, db.Create(&math).Error)
	require.NoError(t, db.Create(&cs).Error)

	year := "2025/2026"
	algebra := &models.Course{Title: "Algebra", Slug: "algebra", Description: "Linear maps", Language: "bg", IsVisible: true, AcademicYear: &year, Groups: []models.ProgramGroup{math, cs}}
	require.NoError(t, db.Create(algebra).Error)
	require.NoError(t, db.Create(&models.Course{Title: "Hidden", Slug: "hidden", Language: "bg", Groups: []models.ProgramGroup{math}}).Error)
	require.NoError(t, db.Create(&models.Course{Title: "Databases", Slug: "databases", Language: "bg", IsVisible: true, Groups: []models.ProgramGroup{cs}}).Error)

	teacher := testutil.CreateUser(t, db, "t@example.com", models.RoleAdmin)
	helper := testutil.CreateUser(t, db, "h@example.com", models.RoleAssistant)
	testutil.AddStaff(t, db, algebra.ID, teacher.ID, models.StaffTeacher)
	testutil.AddStaff(t, db, algebra.ID, helper.ID, models.StaffAssistant)

	all, err := svc.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Algebra", all[0].Title)
	assert.Equal(t, []Teacher{{ID: teacher.ID, Name: teacher.Name}}, all[0].Teachers)
	assert.Empty(t, all[1].Teachers)

	found, err := svc.Search(ctx, SearchQuery{Text: "LINEAR"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "algebra", found[0].Slug)

	found, err = svc.Search(ctx, SearchQuery{Group: "math"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Len(t, found[0].Groups, 2, "keeps every group of the course")

	found, err = svc.Search(ctx, SearchQuery{Year: "2024/2025"})
	require.NoError(t, err)
	assert.Empty(t, found)

	years, err := svc.Years(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025/2026"}, years)

	groups, err := svc.Groups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "math", groups[0].Slug)
}
