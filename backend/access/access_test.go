package access

import (
	"context"
	"testing"

	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		globalRole string
		staffRole  string
		op         Operation
		want       Decision
	}{
		{"super admin without staff row", models.RoleSuperAdmin, "", Delete, Allow},
		{"super admin manages", models.RoleSuperAdmin, models.StaffAssistant, Manage, Allow},
		{"admin without staff row", models.RoleAdmin, "", Read, DenyNoAccess},
		{"assistant without staff row", models.RoleAssistant, "", Write, DenyNoAccess},
		{"teacher deletes", models.RoleAdmin, models.StaffTeacher, Delete, Allow},
		{"teacher manages staff", models.RoleAssistant, models.StaffTeacher, Manage, Allow},
		{"course assistant reads", models.RoleAdmin, models.StaffAssistant, Read, Allow},
		{"course assistant writes", models.RoleAdmin, models.StaffAssistant, Write, Allow},
		{"course assistant deletes", models.RoleAdmin, models.StaffAssistant, Delete, DenyInsufficientRole},
		{"course assistant manages", models.RoleAssistant, models.StaffAssistant, Manage, DenyInsufficientRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.globalRole, tt.staffRole, tt.op))
		})
	}
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, Allow.Err())
	assert.ErrorIs(t, DenyNoAccess.Err(), ErrNoCourseAccess)
	assert.ErrorIs(t, DenyInsufficientRole.Err(), ErrInsufficientRole)
	assert.True(t, IsDenied(DenyNoAccess.Err()))
	assert.False(t, IsDenied(apperr.NotFound("Course")))
}

func TestCheckerAuthorize(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	ch := NewChecker(db)

	tree := testutil.CreateTree(t, db, "algebra")
	other := testutil.CreateCourse(t, db, "Other", "other", true)
	root := testutil.CreateUser(t, db, "root@example.com", models.RoleSuperAdmin)
	teacher := testutil.CreateUser(t, db, "teacher@example.com", models.RoleAdmin)
	assistant := testutil.CreateUser(t, db, "assistant@example.com", models.RoleAssistant)
	testutil.AddStaff(t, db, tree.Course.ID, teacher.ID, models.StaffTeacher)
	testutil.AddStaff(t, db, tree.Course.ID, assistant.ID, models.StaffAssistant)

	t.Run("super admin bypasses staff table", func(t *testing.T) {
		assert.NoError(t, ch.Authorize(ctx, root, other.ID, Manage))
	})

	t.Run("no staff row", func(t *testing.T) {
		assert.ErrorIs(t, ch.Authorize(ctx, teacher, other.ID, Read), ErrNoCourseAccess)
	})

	t.Run("assistant may write but not delete", func(t *testing.T) {
		for _, kind := range []Kind{KindModule, KindTopic, KindLesson, KindResource} {
			ids := map[Kind]uint{
				KindModule:   tree.Module.ID,
				KindTopic:    tree.Topic.ID,
				KindLesson:   tree.Lesson.ID,
				KindResource: tree.Resource.ID,
			}
			_, err := ch.AuthorizeEntity(ctx, assistant, kind, ids[kind], Write)
			assert.NoError(t, err, kind)
			_, err = ch.AuthorizeEntity(ctx, assistant, kind, ids[kind], Delete)
			assert.ErrorIs(t, err, ErrInsufficientRole, kind)
		}
	})

	t.Run("teacher deletes", func(t *testing.T) {
		courseID, err := ch.AuthorizeEntity(ctx, teacher, KindResource, tree.Resource.ID, Delete)
		require.NoError(t, err)
		assert.Equal(t, tree.Course.ID, courseID)
	})

	t.Run("missing entity is not found before permission", func(t *testing.T) {
		_, err := ch.AuthorizeEntity(ctx, assistant, KindLesson, 9999, Delete)
		var nf *apperr.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Lesson", nf.Entity)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := ch.AuthorizeEntity(ctx, nil, KindModule, tree.Module.ID, Read)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

func TestResolveCourseWalksUp(t *testing.T) {
	db := testutil.NewDB(t)
	ch := NewChecker(db)
	tree := testutil.CreateTree(t, db, "walk")

	for kind, id := range map[Kind]uint{
		KindCourse:   tree.Course.ID,
		KindModule:   tree.Module.ID,
		KindTopic:    tree.Topic.ID,
		KindLesson:   tree.Lesson.ID,
		KindResource: tree.Resource.ID,
	} {
		got, err := ch.ResolveCourse(context.Background(), kind, id)
		require.NoError(t, err, kind)
		assert.Equal(t, tree.Course.ID, got, kind)
	}

	ids, err := ch.CourseIDsFor(context.Background(), 12345)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
