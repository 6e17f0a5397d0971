//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-shop-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("shop_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func sampleOrder(t *testing.T, owner int64) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(owner, []domain.Item{
		{ProductID: 10, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		{ProductID: 11, Quantity: 1, UnitPrice: decimal.RequireFromString("3.50")},
	}, time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, sampleOrder(t, 1))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	assert.Len(t, fetched.Items, 2)
	assert.True(t, fetched.TotalAmount.Equal(decimal.RequireFromString("13.50")))
	assert.Equal(t, int64(10), fetched.Items[0].ProductID)
}

func TestRepository_CreateIsAtomic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := sampleOrder(t, 1)
	order.Items[1].Quantity = 0 // rejected by the check constraint
	_, err := repo.Create(ctx, order)
	require.Error(t, err)

	list, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_ListByOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, sampleOrder(t, 7))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, sampleOrder(t, 8))
	require.NoError(t, err)

	list, err := repo.ListByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	for _, order := range list {
		assert.Equal(t, int64(7), order.OwnerID)
		assert.Len(t, order.Items, 2)
	}
}

func TestRepository_UpdateStatusSerializesWriters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, sampleOrder(t, 1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, next := range []domain.Status{domain.StatusPaid, domain.StatusCanceled} {
		wg.Add(1)
		go func(next domain.Status) {
			defer wg.Done()
			_, err := repo.UpdateStatus(ctx, saved.ID, func(o *domain.Order) error {
				return o.TransitionTo(next, time.Now())
			})
			errs <- err
		}(next)
	}
	wg.Wait()
	close(errs)

	failures := 0
	for err := range errs {
		if err != nil {
			failures++
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, sampleOrder(t, 1))
	require.NoError(t, err)

	err = repo.Delete(ctx, saved.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	var remaining int64
	require.NoError(t, db.Table("order_items").Where("order_id = ?", saved.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	err = repo.Delete(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
