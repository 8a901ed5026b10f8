package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAdminLogRepository struct {
	mock.Mock
}

func (m *MockAdminLogRepository) Create(ctx context.Context, log *audit.AdminLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAdminLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.AdminLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]audit.AdminLog), args.Error(1)
}

func (m *MockAdminLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_Record(t *testing.T) {
	t.Run("writes entry with actor from context", func(t *testing.T) {
		repo := new(MockAdminLogRepository)
		svc := NewService(repo, zap.NewNop())

		userID := uuid.New()
		ctx := WithActor(context.Background(), audit.Actor{ID: &userID, Email: "admin@shop.test", IP: "10.0.0.1"})

		repo.On("Create", ctx, mock.MatchedBy(func(l *audit.AdminLog) bool {
			return *l.ActorID == userID &&
				l.ActorEmail == "admin@shop.test" &&
				l.Action == audit.ActionToggle &&
				l.Resource == "product" &&
				l.ResourceID == "p-1" &&
				l.IPAddress == "10.0.0.1"
		})).Return(nil)

		svc.Record(ctx, audit.ActionToggle, "product", "p-1", map[string]any{"is_active": false})
		repo.AssertExpectations(t)
	})

	t.Run("repository failure is swallowed", func(t *testing.T) {
		repo := new(MockAdminLogRepository)
		svc := NewService(repo, zap.NewNop())
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

		assert.NotPanics(t, func() {
			svc.Record(context.Background(), audit.ActionDelete, "color", "c-1", nil)
		})
		repo.AssertExpectations(t)
	})
}

func TestService_List(t *testing.T) {
	repo := new(MockAdminLogRepository)
	svc := NewService(repo, zap.NewNop())
	vendorID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	expectFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 &&
			f.PageSize == 50 &&
			f.OrderBy == "created_at" &&
			f.OrderDir == "desc" &&
			f.Filters["resource"] == "product" &&
			f.Filters["vendor_id"] == vendorID &&
			f.Filters["created_from"] == from &&
			f.Filters["created_to"] == to.AddDate(0, 0, 1)
	})

	entry, err := audit.NewAdminLog(audit.Actor{Email: "seller@shop.test"}, audit.ActionCreate, "product", "p-9", nil)
	require.NoError(t, err)
	repo.On("FindAll", mock.Anything, expectFilter).Return([]audit.AdminLog{*entry}, nil)
	repo.On("Count", mock.Anything, expectFilter).Return(int64(51), nil)

	logs, total, err := svc.List(context.Background(), shared.VendorScope(vendorID), LogListFilter{
		Page:        2,
		Resource:    "product",
		CreatedFrom: &from,
		CreatedTo:   &to,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(51), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "seller@shop.test", logs[0].ActorEmail)
	assert.JSONEq(t, `{}`, string(logs[0].Details))
}
