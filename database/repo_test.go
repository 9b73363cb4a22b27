package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestProjectRepoAddRejectsDuplicateSlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepo(db)

	mock.ExpectExec(`INSERT INTO "projects" .* ON CONFLICT \("slug"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Add(context.Background(), &models.Project{Slug: "craftybay", Title: "CraftyBay", Price: "1,00,000 BDT"})

	require.Error(t, err)
	assert.True(t, errs.IsAlreadyExists(err))
	assert.Equal(t, 409, errs.StatusCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepoAdd(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepo(db)

	mock.ExpectExec(`INSERT INTO "projects"`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Add(context.Background(), &models.Project{Slug: "find-it", Title: "Find It", Price: "30,000 BDT"})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepoFindBySlugNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepo(db)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE slug = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}))

	_, err := repo.FindBySlug(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepoFindAllHidesDrafts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepo(db)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE is_public = \$1 ORDER BY created_at DESC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "title", "is_public"}).AddRow("craftybay", "CraftyBay", true))

	projects, err := repo.FindAll(context.Background(), false)

	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "craftybay", projects[0].Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTogglePublicFlipsInOneStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepo(db)

	mock.ExpectQuery(`UPDATE "projects" SET is_public = NOT is_public, updated_at = NOW\(\) WHERE slug = \$1 RETURNING is_public`).
		WithArgs("craftybay").
		WillReturnRows(sqlmock.NewRows([]string{"is_public"}).AddRow(false))
	mock.ExpectQuery(`UPDATE "projects" SET is_public = NOT is_public`).
		WithArgs("craftybay").
		WillReturnRows(sqlmock.NewRows([]string{"is_public"}).AddRow(true))

	first, err := repo.TogglePublic(context.Background(), "craftybay")
	require.NoError(t, err)
	assert.False(t, first)

	second, err := repo.TogglePublic(context.Background(), "craftybay")
	require.NoError(t, err)
	assert.True(t, second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTogglePublicUnknownSlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppLabRepo(db)

	mock.ExpectQuery(`UPDATE "app_lab" SET is_public = NOT is_public`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"is_public"}))

	_, err := repo.TogglePublic(context.Background(), "ghost")

	assert.True(t, errs.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepoDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTagRepo(db)

	mock.ExpectExec(`DELETE FROM "tags" WHERE id = \$1`).
		WithArgs("trending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "trending")

	assert.True(t, errs.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepoRecordOncePerTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)

	mock.ExpectQuery(`INSERT INTO "purchases" .* ON CONFLICT \("transaction_id"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("0b9c6f64-5d3c-4f69-9d52-3a3c1fb0a111"))
	mock.ExpectQuery(`INSERT INTO "purchases"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	purchase := models.Purchase{UserID: "u1", ProjectName: "craftybay", TransactionID: "craftybay_1700000000000"}

	created, err := repo.Record(context.Background(), &purchase)
	require.NoError(t, err)
	assert.True(t, created)

	replay := purchase
	created, err = repo.Record(context.Background(), &replay)
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT \("uid"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.UserProfile{UID: "u1", Email: "a@b.com", Mobile: "01712345678"})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSQLStopsAtFirstFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`CREATE TABLE one`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE two`).WillReturnError(errors.New("syntax error"))

	err := runSQL(db, "CREATE TABLE one (id int)", "CREATE TABLE two (", "CREATE TABLE three (id int)")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogSeedIsConsistent(t *testing.T) {
	seed, err := loadCatalogSeed()
	require.NoError(t, err)
	require.NotEmpty(t, seed.Projects)

	tagIDs := map[string]bool{}
	for _, tag := range seed.Tags {
		assert.Equal(t, catalog.Slug(tag.Name), tag.ID)
		tagIDs[tag.ID] = true
	}

	for _, p := range seed.Projects {
		assert.Equal(t, p.Slug, catalog.Slug(p.Slug), "seed slug %q is not canonical", p.Slug)
		assert.True(t, p.Category.Valid(), p.Slug)
		_, err := catalog.ParseAmount(p.EffectivePrice())
		assert.NoError(t, err, p.Slug)
		for _, id := range p.Tags {
			assert.True(t, tagIDs[id], "project %s references unknown tag %s", p.Slug, id)
		}
	}
}
