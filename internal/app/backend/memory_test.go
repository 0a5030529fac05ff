package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
)

func memoryCaller(t *testing.T, m *Memory, email string) *models.Caller {
	t.Helper()
	ctx := context.Background()
	identity, session, err := m.SignUp(ctx, email, "Str0ng!Pass")
	require.NoError(t, err)
	caller := session.Caller()
	require.NoError(t, m.CreateStudent(ctx, caller, models.Student{ID: identity.ID, FirstName: "Jane", LastName: "Doe", Phone: "5551234567"}))
	return caller
}

func TestMemory_SignInAndOut(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, _, err := m.SignUp(ctx, "Jane@Example.com", "Str0ng!Pass")
	require.NoError(t, err)

	_, _, err = m.SignUp(ctx, "jane@example.com", "Other!Pass1")
	assert.True(t, errors.Is(err, apperrors.ErrIdentityRejected))

	_, err = m.SignIn(ctx, "jane@example.com", "wrong")
	assert.Equal(t, "Invalid login credentials", apperrors.Message(err, ""))

	session, err := m.SignIn(ctx, "jane@example.com", "Str0ng!Pass")
	require.NoError(t, err)

	caller, err := m.ResolveCaller(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", caller.Email)

	require.NoError(t, m.SignOut(ctx, caller))
	_, err = m.ResolveCaller(ctx, session.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestMemory_SessionExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	_, session, err := m.SignUp(ctx, "jane@example.com", "Str0ng!Pass")
	require.NoError(t, err)

	now = now.Add(memorySessionTTL)
	_, err = m.ResolveCaller(ctx, session.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestMemory_StudentRowMustBeCallers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	caller := memoryCaller(t, m, "jane@example.com")

	err := m.CreateStudent(ctx, caller, models.Student{ID: "someone-else"})
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	err = m.CreateStudent(ctx, caller, models.Student{ID: caller.UserID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMemory_ConsultationOwnership(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := memoryCaller(t, m, "owner@example.com")
	other := memoryCaller(t, m, "other@example.com")

	created, err := m.CreateConsultation(ctx, owner, models.NewConsultation{
		UserID: owner.UserID, FirstName: "Jane", LastName: "Doe", Reason: "Planning",
		Datetime: time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	n, err := m.SetConsultationComplete(ctx, other, created.ID, true)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := m.ListConsultations(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err = m.SetConsultationComplete(ctx, owner, created.ID, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err = m.ListConsultations(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsComplete)
}

func TestMemory_DeleteIdentity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	identity, session, err := m.SignUp(ctx, "jane@example.com", "Str0ng!Pass")
	require.NoError(t, err)

	require.NoError(t, m.DeleteIdentity(ctx, identity.ID))
	_, err = m.ResolveCaller(ctx, session.AccessToken)
	assert.Error(t, err)
	_, err = m.SignIn(ctx, "jane@example.com", "Str0ng!Pass")
	assert.Error(t, err)
}
