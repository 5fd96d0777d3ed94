package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"reading-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
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

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "clerk_user_id", "token_balance", "last_free_flip_at", "created_at", "updated_at"})
}

func TestUserRepository_FindByClerkID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE clerk_user_id = $1`)).
		WillReturnRows(userRows().AddRow("u-1", "user_1", 42, nil, now, now))

	user, err := repo.FindByClerkID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, 42, user.TokenBalance)
	assert.Nil(t, user.LastFreeFlipAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByClerkIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(userRows())

	_, err := repo.FindByClerkID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateTokenBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(userRows().AddRow("u-1", "user_1", 50, nil, now, now))

	user, err := repo.UpdateTokenBalance(context.Background(), "user_1", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, user.TokenBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateTokenBalanceMissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateTokenBalance(context.Background(), "missing", 50)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteByClerkID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE clerk_user_id = $1`)).
		WithArgs("user_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByClerkID(context.Background(), "user_1"))
	assert.ErrorIs(t, repo.DeleteByClerkID(context.Background(), "user_1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindProfileLoadsActiveSubscriptions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE clerk_user_id = $1`)).
		WillReturnRows(userRows().AddRow("u-1", "user_1", 3, nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "subscriptions" WHERE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "clerk_user_id", "package_id", "start_time", "end_time", "is_voided", "voided_at"}).
			AddRow("s-1", "user_1", "p-1", now.Add(-time.Hour), now.Add(time.Hour), false, nil))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "packages" WHERE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "name_th", "name_en", "price_thb"}).
			AddRow("p-1", "MONTHLY", "รายเดือน", "Monthly", 198))

	user, err := repo.FindProfile(context.Background(), "user_1", now)
	require.NoError(t, err)
	require.Len(t, user.Subscriptions, 1)
	assert.Equal(t, "s-1", user.Subscriptions[0].ID)
	assert.Equal(t, models.PackageMonthly, user.Subscriptions[0].Package.Type)
	assert.Equal(t, 198, user.Subscriptions[0].Package.PriceThb)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageRepository_FindByType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPackageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "packages" WHERE type = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "name_th", "name_en", "price_thb"}).
			AddRow("p-2", "YEARLY", "รายปี", "Yearly", 1599))

	pkg, err := repo.FindByType(context.Background(), models.PackageYearly)
	require.NoError(t, err)
	assert.Equal(t, "p-2", pkg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Void(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)
	at := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "subscriptions" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sub := &models.Subscription{ID: "s-1"}
	require.NoError(t, repo.Void(context.Background(), sub, at))
	assert.True(t, sub.IsVoided)
	require.NotNil(t, sub.VoidedAt)
	assert.Equal(t, at, *sub.VoidedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentAccountRepository_FindByCustomerIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payment_accounts" WHERE provider = $1 AND provider_customer_id = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByCustomerID(context.Background(), models.PaymentProviderStripe, "cus_x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtistRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "artists" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "avatar_url", "description", "specialties"}).
			AddRow("a-1", "Veeraya", "https://cdn/v.webp", "desc", "{Illustrated Animation,Mixed-media Drawing}"))

	artist, err := repo.FindByID(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Veeraya", artist.FullName)
	assert.Equal(t, []string{"Illustrated Animation", "Mixed-media Drawing"}, []string(artist.Specialties))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtRepository_CreateManyEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtRepository(db)

	n, err := repo.CreateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtistRepository_FindByFullNameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "artists" WHERE full_name = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByFullName(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRepository_Claim(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckoutRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "fulfilled_checkouts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "fulfilled_checkouts"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	checkout := func() *models.FulfilledCheckout {
		return &models.FulfilledCheckout{SessionID: "cs_1", ClerkUserID: "user_1", PackageType: models.PackageFlipToken1, Quantity: 3}
	}

	claimed, err := repo.Claim(context.Background(), checkout())
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.Claim(context.Background(), checkout())
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRepository_Release(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckoutRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "fulfilled_checkouts" WHERE session_id = $1`)).
		WithArgs("cs_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Release(context.Background(), "cs_1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
