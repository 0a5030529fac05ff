package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/consultdesk/internal/app/backend"
	"github.com/yigit/consultdesk/internal/pkg/logger"
)

func TestCreateDemoData_Idempotent(t *testing.T) {
	ctx := context.Background()
	b := backend.NewMemory()
	now := time.Date(2030, 1, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, CreateDemoData(ctx, b, now, logger.Nop()))
	require.NoError(t, CreateDemoData(ctx, b, now, logger.Nop()))

	session, err := b.SignIn(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	caller := session.Caller()

	student, err := b.GetStudent(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "Demo", student.FirstName)

	list, err := b.ListConsultations(ctx, caller)
	require.NoError(t, err)
	require.Len(t, list, len(DefaultConsultations))
	for _, c := range list {
		assert.True(t, c.Datetime.After(now))
	}
}
