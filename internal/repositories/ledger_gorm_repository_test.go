package repositories_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"growthledger/internal/models"
	"growthledger/internal/repositories"
)

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email}
	require.NoError(t, repositories.NewGORMUserRepository(db).Create(user))
	return user
}

func TestGORMLedgerRepository_InsertAndSum(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMLedgerRepository(db)
	user := createTestUser(t, db, "u@x.com")

	err := repo.Insert(&models.LedgerEntry{
		UserID:           user.ID,
		Delta:            50,
		Reason:           "gleam action: newsletter_signup",
		Source:           "gleam",
		ExternalEventKey: "camp1:1",
		RawPayload:       []byte(`{"entry":{"id":1}}`),
	})
	require.NoError(t, err)

	err = repo.Insert(&models.LedgerEntry{
		UserID:           user.ID,
		Delta:            10,
		Reason:           "gleam action: twitter_follow",
		Source:           "gleam",
		ExternalEventKey: "camp1:2",
	})
	require.NoError(t, err)

	total, err := repo.SumDeltaByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, total)
}

func TestGORMLedgerRepository_DuplicateEventKey(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMLedgerRepository(db)
	user := createTestUser(t, db, "u@x.com")

	entry := models.LedgerEntry{
		UserID:           user.ID,
		Delta:            50,
		Reason:           "gleam action: newsletter_signup",
		Source:           "gleam",
		ExternalEventKey: "camp1:1",
	}
	require.NoError(t, repo.Insert(&entry))

	retry := entry
	retry.ID = 0
	err := repo.Insert(&retry)
	assert.ErrorIs(t, err, repositories.ErrDuplicateEvent)

	// The losing insert must not have changed the ledger.
	var count int64
	require.NoError(t, db.Model(&models.LedgerEntry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	total, err := repo.SumDeltaByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, total)
}

func TestGORMLedgerRepository_ConcurrentDuplicateInserts(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection serializes writes at the pool instead of tripping
	// sqlite's immediate-busy behavior; every insert still races for the
	// unique index and all but one must lose.
	sqlDB.SetMaxOpenConns(1)

	repo := repositories.NewGORMLedgerRepository(db)
	user := createTestUser(t, db, "u@x.com")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Insert(&models.LedgerEntry{
				UserID:           user.ID,
				Delta:            50,
				Reason:           "gleam action: newsletter_signup",
				Source:           "gleam",
				ExternalEventKey: "camp1:1",
			})
		}(i)
	}
	wg.Wait()

	inserted := 0
	for i := 0; i < workers; i++ {
		if errs[i] == nil {
			inserted++
		} else {
			assert.ErrorIs(t, errs[i], repositories.ErrDuplicateEvent)
		}
	}
	assert.Equal(t, 1, inserted)

	total, err := repo.SumDeltaByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, total)
}

func TestGORMLedgerRepository_SumWithoutEntries(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMLedgerRepository(db)
	user := createTestUser(t, db, "u@x.com")

	total, err := repo.SumDeltaByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestGORMLedgerRepository_CascadeDeleteWithUser(t *testing.T) {
	// Foreign keys must be switched on explicitly for sqlite.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.LedgerEntry{}))

	repo := repositories.NewGORMLedgerRepository(db)
	user := createTestUser(t, db, "u@x.com")
	require.NoError(t, repo.Insert(&models.LedgerEntry{
		UserID:           user.ID,
		Delta:            50,
		Reason:           "gleam action: newsletter_signup",
		Source:           "gleam",
		ExternalEventKey: "camp1:1",
	}))

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	// Entries are owned by their user and must not outlive it.
	var count int64
	require.NoError(t, db.Model(&models.LedgerEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
