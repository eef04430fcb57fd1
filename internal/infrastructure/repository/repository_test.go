package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestTenantScope(t *testing.T) {
	churchID := uuid.New()

	tests := []struct {
		name  string
		ctx   context.Context
		match string
	}{
		{"no church matches nothing", context.Background(), `1 = 0`},
		{"church filters rows", WithTenant(context.Background(), churchID), `tenant_id = \$1`},
		{"platform jobs see every church", WithSkipTenantScope(context.Background(), true), `"members"."deleted_at" IS NULL`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(`SELECT count\(\*\) FROM "members" WHERE .*` + tt.match).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

			count, err := NewMemberRepository(db).Count(tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMemberRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := WithTenant(context.Background(), uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "members" WHERE .*id = .*tenant_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	member, err := NewMemberRepository(db).GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepository_SumSubmitted(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := WithTenant(context.Background(), uuid.New())

	mock.ExpectQuery(`(?s)SELECT COALESCE\(SUM\(tithe_amount\), 0\) AS tithe.*FROM "tithes_and_offerings" WHERE .*doc_status = .*tenant_id = `).
		WillReturnRows(sqlmock.NewRows([]string{
			"tithe", "offering", "offering_to_field", "campmeeting", "church_building", "total", "count",
		}).AddRow("1000.00", "500.00", "290.00", "40.00", "60.00", "1600.00", int64(4)))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	totals, err := NewContributionRepository(db).SumSubmitted(ctx, from, to)
	require.NoError(t, err)

	assert.Equal(t, "1000.00", totals.Tithe.StringFixed(2))
	assert.Equal(t, "290.00", totals.OfferingToField.StringFixed(2))
	assert.Equal(t, "100.00", totals.Special().StringFixed(2))
	assert.Equal(t, int64(4), totals.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamingSeriesRepository_Next(t *testing.T) {
	t.Run("requires a church", func(t *testing.T) {
		db, mock := newMockDB(t)

		_, err := NewNamingSeriesRepository(db).Next(context.Background(), "TAO-2026")
		assert.ErrorIs(t, err, errNoChurch)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the bumped counter", func(t *testing.T) {
		db, mock := newMockDB(t)
		churchID := uuid.New()

		mock.ExpectQuery(`(?s)INSERT INTO naming_series .*ON CONFLICT \(tenant_id, prefix\) DO UPDATE .*RETURNING current`).
			WithArgs(churchID, "TAO-2026").
			WillReturnRows(sqlmock.NewRows([]string{"current"}).AddRow(int64(7)))

		n, err := NewNamingSeriesRepository(db).Next(WithTenant(context.Background(), churchID), "TAO-2026")
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
		assert.Equal(t, "TAO-2026-00007", entity.FormatDocumentName(entity.SeriesContribution, 2026, n))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSettingsRepository_IncrementSMSUsed(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := WithTenant(context.Background(), uuid.New())

	mock.ExpectExec(`UPDATE "stewardpro_settings" SET "sms_used_this_month"=sms_used_this_month \+ \$1 WHERE tenant_id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewSettingsRepository(db).IncrementSMSUsed(ctx, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSMSLogRepository_RejectsBadCursor(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := WithTenant(context.Background(), uuid.New())

	_, err := NewSMSLogRepository(db).ListWithCursor(ctx, &domainRepo.SMSLogFilterParams{
		Cursor: &pagination.CursorParams{Cursor: "%%%"},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_MutateWithBudgetMissing(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := WithTenant(context.Background(), uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "department_expenses" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	called := false
	expense, err := NewExpenseRepository(db).MutateWithBudget(ctx, uuid.New(),
		func(*entity.DepartmentExpense, *entity.DepartmentBudget) error {
			called = true
			return nil
		})
	require.NoError(t, err)
	assert.Nil(t, expense)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_MonthlyRemittances(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := WithTenant(context.Background(), uuid.New())

	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT date_trunc\('month', date\) AS month.*FROM "tithes_and_offerings"`).
		WillReturnRows(sqlmock.NewRows([]string{"month", "tithe", "to_field", "special"}).
			AddRow(feb, "200.00", "58.00", "0.00").
			AddRow(jan, "100.00", "29.00", "10.00"))
	mock.ExpectQuery(`(?s)SELECT date_trunc\('month', remittance_date\) AS month.*FROM "remittances"`).
		WillReturnRows(sqlmock.NewRows([]string{"month", "total"}).
			AddRow(jan, "139.00").
			AddRow(mar, "50.00"))

	rows, err := NewReportRepository(db).MonthlyRemittances(ctx, jan, mar.AddDate(0, 1, -1))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].Month.Equal(jan))
	assert.Equal(t, "100.00", rows[0].Tithe.StringFixed(2))
	assert.Equal(t, "139.00", rows[0].Remitted.StringFixed(2))
	assert.True(t, rows[1].Month.Equal(feb))
	assert.True(t, rows[1].Remitted.IsZero())
	assert.True(t, rows[2].Month.Equal(mar))
	assert.True(t, rows[2].Tithe.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetTokenRepository_Consume(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"live token is spent", 1, true},
		{"spent or expired token", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectExec(`UPDATE "password_reset_tokens" SET "used"=\$1 WHERE token_hash = \$2 AND email = \$3 AND used = \$4 AND expires_at > \$5`).
				WithArgs(true, "abc123", "clerk@church.org", false, sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := NewPasswordResetTokenRepository(db).Consume(context.Background(), "abc123", "clerk@church.org")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPasswordResetTokenRepository_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM "password_reset_tokens" WHERE expires_at < \$1 OR used = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := NewPasswordResetTokenRepository(db).DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Transition(t *testing.T) {
	t.Run("writes back the locked row", func(t *testing.T) {
		db, mock := newMockDB(t)
		ctx := WithTenant(context.Background(), uuid.New())
		id, lineID := uuid.New(), uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "department_budgets" WHERE .*tenant_id = .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "total_budget_amount", "spent_amount"}).
				AddRow(id.String(), "Active", "5000.00", "1000.00"))
		mock.ExpectQuery(`SELECT \* FROM "department_budget_items" WHERE budget_id = `).
			WillReturnRows(sqlmock.NewRows([]string{"id", "budget_id", "idx", "expense_category", "spent_amount"}).
				AddRow(lineID.String(), id.String(), 1, "Travel", "1000.00"))
		mock.ExpectExec(`UPDATE "department_budgets" SET `).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "department_budget_items" SET `).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		budget, err := NewBudgetRepository(db).Transition(ctx, id, func(b *entity.DepartmentBudget) error {
			b.Status = enum.BudgetStatusClosed
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, enum.BudgetStatusClosed, budget.Status)
		assert.Equal(t, "1000.00", budget.SpentAmount.StringFixed(2))
		require.Len(t, budget.Items, 1)
		assert.Equal(t, "1000.00", budget.Items[0].SpentAmount.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refused change writes nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		ctx := WithTenant(context.Background(), uuid.New())
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "department_budgets" WHERE .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(id.String(), "Draft"))
		mock.ExpectQuery(`SELECT \* FROM "department_budget_items" WHERE budget_id = `).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		refused := errors.New("only active budgets can be closed")
		_, err := NewBudgetRepository(db).Transition(ctx, id, func(*entity.DepartmentBudget) error {
			return refused
		})
		assert.ErrorIs(t, err, refused)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing budget", func(t *testing.T) {
		db, mock := newMockDB(t)
		ctx := WithTenant(context.Background(), uuid.New())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "department_budgets" WHERE .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		called := false
		budget, err := NewBudgetRepository(db).Transition(ctx, uuid.New(), func(*entity.DepartmentBudget) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.Nil(t, budget)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIdempotencyRepository_CreateReplacesExpired(t *testing.T) {
	db, mock := newMockDB(t)
	churchID := uuid.New()

	mock.ExpectQuery(`(?s)INSERT INTO "idempotency_keys" .*ON CONFLICT \("tenant_id","key"\) DO UPDATE SET .*"response_body"="excluded"."response_body".*WHERE "idempotency_keys"."expires_at" <= `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

	err := NewIdempotencyRepository(db).Create(context.Background(), &entity.IdempotencyKey{
		TenantID:     churchID,
		Key:          "retry-1",
		UserID:       uuid.New(),
		Endpoint:     "POST /api/v1/contributions",
		ResponseCode: 201,
		ResponseBody: `{"id":"1"}`,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
