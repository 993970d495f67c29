package history

import (
	"context"
	"testing"
	"time"

	"license-auditor/core/database"
	"license-auditor/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func sampleRun(id string, startedAt time.Time, violations ...reconcile.Violation) Run {
	return Run{
		ID:            id,
		LicenseSource: "license.txt",
		ObjectsSource: "objects.xlsx",
		Sheet:         "Objects",
		Artifact:      "missing-permissions.csv",
		StartedAt:     startedAt,
		Result: reconcile.Result{
			Violations: violations,
			Summary: reconcile.Summary{
				Ranges:       8,
				TotalObjects: 10,
				Licensed:     7,
				Checked:      5,
				Covered:      5 - len(violations),
				Violations:   len(violations),
			},
		},
	}
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	run := sampleRun("run-1", time.Now(),
		reconcile.Violation{ObjectType: reconcile.Codeunit, ID: 60000, Name: "Import Engine"},
		reconcile.Violation{ObjectType: reconcile.XMLport, ID: 60001, Name: "Export"},
	)

	saved, err := repo.Save(ctx, run)
	require.NoError(t, err)
	assert.Len(t, saved.Items, 2)

	got, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "objects.xlsx", got.ObjectsSource)
	assert.Equal(t, 2, got.Violations)
	assert.Equal(t, 3, got.Covered)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Codeunit", got.Items[0].ObjectType)
	assert.Equal(t, int64(60000), got.Items[0].ObjectID)
	assert.Equal(t, "XMLPort", got.Items[1].ObjectType)
}

func TestRepository_SaveWithoutViolations(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleRun("clean", time.Now()))
	require.NoError(t, err)

	got, err := repo.Get(ctx, "clean")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.Violations)
}

func TestRepository_List(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"oldest", "middle", "newest"} {
		_, err := repo.Save(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	runs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newest", runs[0].ID)
	assert.Equal(t, "middle", runs[1].ID)

	runs, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRepository_GetUnknown(t *testing.T) {
	repo := setupSQLite(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRepository_DuplicateID(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleRun("dup", time.Now()))
	require.NoError(t, err)

	_, err = repo.Save(ctx, sampleRun("dup", time.Now()))
	assert.Error(t, err)
}

func TestRepository_SaveRollsBackOnError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	repo := NewRepository(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `audit_runs`").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("INSERT INTO `audit_violations`").WillReturnError(assert.AnError)
	sqlMock.ExpectRollback()

	_, err := repo.Save(context.Background(), sampleRun("run-x", time.Now(),
		reconcile.Violation{ObjectType: reconcile.Page, ID: 60000, Name: "Card"},
	))
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRepository_ListError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	repo := NewRepository(db)

	sqlMock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	_, err := repo.List(context.Background(), 5)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "audit_runs", RunRecord{}.TableName())
	assert.Equal(t, "audit_violations", ViolationRecord{}.TableName())
}
