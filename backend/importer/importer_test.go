package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"courseplatform/backend/access"
	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func payload(modules, lessonsPerTopic int, lastLesson string) *Payload {
	p := &Payload{}
	for m := 0; m < modules; m++ {
		topic := Topic{Title: "Topic"}
		for l := 0; l < lessonsPerTopic; l++ {
			topic.Lessons = append(topic.Lessons, Lesson{Title: fmt.Sprintf("Lesson %d", l+1), ContentMD: "body", SortOrder: l})
		}
		p.Modules = append(p.Modules, Module{Title: "Chapter", SortOrder: m, Topics: []Topic{topic}})
	}
	if lastLesson != "" {
		lessons := p.Modules[modules-1].Topics[0].Lessons
		lessons[len(lessons)-1].Title = lastLesson
	}
	return p
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestImport(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tree := testutil.CreateTree(t, db, "algebra")
	root := testutil.CreateUser(t, db, "root@example.com", models.RoleSuperAdmin)
	im := New(db, access.NewChecker(db))

	counts, err := im.Import(ctx, root, tree.Course.ID, payload(2, 3, ""))
	require.NoError(t, err)
	assert.Equal(t, Counts{Modules: 2, Topics: 2, Lessons: 6}, counts)
	assert.Equal(t, int64(7), count(t, db, &models.Lesson{}))

	var modules []models.Module
	require.NoError(t, db.Where("course_id = ?", tree.Course.ID).Order("id").Find(&modules).Error)
	require.Len(t, modules, 3)
	assert.Equal(t, "chapter", modules[1].Slug)
	assert.Equal(t, "chapter-2", modules[2].Slug, "used-set suffix, not a timestamp")
	assert.Equal(t, 1, modules[1].SortOrder, "offset by the existing module")
	assert.Equal(t, 2, modules[2].SortOrder)

	for _, m := range modules[1:] {
		var topic models.Topic
		require.NoError(t, db.Where("module_id = ?", m.ID).Take(&topic).Error)
		assert.Equal(t, "topic", topic.Slug, "topic slugs are per module")

		var lessons []models.Lesson
		require.NoError(t, db.Where("topic_id = ?", topic.ID).Order("sort_order").Find(&lessons).Error)
		require.Len(t, lessons, 3)
		assert.Equal(t, "lesson-1", lessons[0].Slug)
		assert.True(t, lessons[2].IsVisible)
	}

	counts, err = im.Import(ctx, root, tree.Course.ID, payload(1, 1, ""))
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Modules)
	var again models.Module
	require.NoError(t, db.Where("course_id = ?", tree.Course.ID).Order("id DESC").Take(&again).Error)
	assert.Equal(t, "chapter-3", again.Slug)
	assert.Equal(t, 3, again.SortOrder)
}

func TestImportRollsBackOnFailure(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, db, "Empty", "empty", true)
	root := testutil.CreateUser(t, db, "root@example.com", models.RoleSuperAdmin)

	err := db.Callback().Create().Before("gorm:create").Register("test:fail_lesson", func(tx *gorm.DB) {
		if lesson, ok := tx.Statement.Dest.(*models.Lesson); ok && lesson.Title == "boom" {
			tx.AddError(errors.New("forced failure"))
		}
	})
	require.NoError(t, err)

	_, err = New(db, access.NewChecker(db)).Import(ctx, root, course.ID, payload(2, 3, "boom"))
	require.Error(t, err)

	assert.Zero(t, count(t, db, &models.Module{}))
	assert.Zero(t, count(t, db, &models.Topic{}))
	assert.Zero(t, count(t, db, &models.Lesson{}))
}

func TestImportRejections(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tree := testutil.CreateTree(t, db, "algebra")
	root := testutil.CreateUser(t, db, "root@example.com", models.RoleSuperAdmin)
	assistant := testutil.CreateUser(t, db, "assistant@example.com", models.RoleAssistant)
	testutil.AddStaff(t, db, tree.Course.ID, assistant.ID, models.StaffAssistant)
	im := New(db, access.NewChecker(db))

	_, err := im.Import(ctx, root, 9999, payload(1, 1, ""))
	assert.True(t, apperr.IsNotFound(err))

	_, err = im.Import(ctx, assistant, tree.Course.ID, payload(1, 1, ""))
	assert.ErrorIs(t, err, access.ErrInsufficientRole)

	_, err = im.Import(ctx, root, tree.Course.ID, &Payload{})
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = im.Import(ctx, root, tree.Course.ID, &Payload{Modules: []Module{{Title: "ok", Topics: []Topic{{Title: ""}}}}})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Fields)

	assert.Equal(t, int64(1), count(t, db, &models.Module{}))
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanFolder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# ignored")
	writeFile(t, dir, "Модул 2 - Функции/01-intro.md", "no heading here")
	writeFile(t, dir, "Модул 2 - Функции/Тема 1 - Граници/2-limits.md", "# Граници\n\ntext")
	writeFile(t, dir, "Модул 2 - Функции/Тема 1 - Граници/1-defs.md", "# Дефиниции")
	writeFile(t, dir, "Модул 2 - Функции/Тема 1 - Граници/readme.md", "skip")
	writeFile(t, dir, "Module 1 - Basics/notes_on-sets.md", "plain")
	writeFile(t, dir, "Module 1 - Basics/image.png", "binary")

	p, err := ScanFolder(dir)
	require.NoError(t, err)
	require.Len(t, p.Modules, 2)

	basics := p.Modules[0]
	assert.Equal(t, "Basics", basics.Title)
	assert.Equal(t, 1, basics.SortOrder)
	require.Len(t, basics.Topics, 1)
	assert.Equal(t, DefaultTopic, basics.Topics[0].Title)
	require.Len(t, basics.Topics[0].Lessons, 1)
	assert.Equal(t, "notes on sets", basics.Topics[0].Lessons[0].Title)
	assert.Equal(t, unordered, basics.Topics[0].Lessons[0].SortOrder)

	funcs := p.Modules[1]
	assert.Equal(t, "Функции", funcs.Title)
	require.Len(t, funcs.Topics, 2)
	assert.Equal(t, DefaultTopic, funcs.Topics[0].Title)
	assert.Equal(t, "intro", funcs.Topics[0].Lessons[0].Title)

	limits := funcs.Topics[1]
	assert.Equal(t, "Граници", limits.Title)
	require.Len(t, limits.Lessons, 2)
	assert.Equal(t, "Дефиниции", limits.Lessons[0].Title)
	assert.Equal(t, "Граници", limits.Lessons[1].Title)
	assert.Equal(t, "# Граници\n\ntext", limits.Lessons[1].ContentMD)

	require.NoError(t, p.Validate())
}
