// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"courseplatform/backend/config"
	"courseplatform/backend/database"
	"courseplatform/backend/models"
	"courseplatform/backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// Config returns a configuration suitable for tests: in-memory sqlite, cheap bcrypt.
func Config() *config.Config {
	return &config.Config{
		AppEnv:            "test",
		DBDriver:          "sqlite",
		DBMaxOpenConns:    1,
		DBMaxIdleConns:    1,
		DBConnMaxIdleTime: time.Minute,
		DBConnMaxLifetime: time.Hour,
		JWTSecret:         "testsecret",
		JWTExpiresIn:      time.Hour,
		BcryptCost:        4,
		UploadMaxSizeMB:   1,
		RateLimitAPI:      10000,
		RateLimitAuth:     10000,
		CORSOrigins:       "*",
	}
}

// Logger discards output.
func Logger() *log.Logger {
	return utils.InitLogger(utils.LoggerConfig{Output: io.Discard})
}

// NewDB opens a fresh migrated in-memory database for one test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := Config()
	cfg.DBDSN = fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", dbCounter.Add(1))

	db, err := database.InitDB(cfg, Logger())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Logger()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an active user whose password is "password123".
func CreateUser(t testing.TB, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123", 4)
	require.NoError(t, err)

	user := &models.User{Email: email, Name: email, PasswordHash: hash, Role: role, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCourse inserts a course with the given slug.
func CreateCourse(t testing.TB, db *gorm.DB, title, slug string, visible bool) *models.Course {
	t.Helper()

	course := &models.Course{Title: title, Slug: slug, Language: "bg", IsVisible: visible}
	require.NoError(t, db.Create(course).Error)
	return course
}

// AddStaff assigns a per-course role.
func AddStaff(t testing.TB, db *gorm.DB, courseID, userID uint, role string) {
	t.Helper()
	require.NoError(t, db.Create(&models.CourseStaff{CourseID: courseID, UserID: userID, Role: role}).Error)
}

// Tree is a course with one module, topic, lesson and resource.
type Tree struct {
	Course   *models.Course
	Module   *models.Module
	Topic    *models.Topic
	Lesson   *models.Lesson
	Resource *models.Resource
}

// CreateTree inserts a fully visible course tree.
func CreateTree(t testing.TB, db *gorm.DB, courseSlug string) *Tree {
	t.Helper()

	tree := &Tree{Course: CreateCourse(t, db, "Course "+courseSlug, courseSlug, true)}
	tree.Module = &models.Module{CourseID: tree.Course.ID, Title: "Module", Slug: "module", IsVisible: true}
	require.NoError(t, db.Create(tree.Module).Error)
	tree.Topic = &models.Topic{ModuleID: tree.Module.ID, Title: "Topic", Slug: "topic", IsVisible: true}
	require.NoError(t, db.Create(tree.Topic).Error)
	tree.Lesson = &models.Lesson{TopicID: tree.Topic.ID, Title: "Lesson", Slug: "lesson", ContentMD: "# Lesson", IsVisible: true}
	require.NoError(t, db.Create(tree.Lesson).Error)
	tree.Resource = &models.Resource{LessonID: tree.Lesson.ID, Type: models.ResourceLink, Title: "Link", IsVisible: true}
	require.NoError(t, db.Create(tree.Resource).Error)
	return tree
}
