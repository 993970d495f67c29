package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"license-auditor/core/database"
	"license-auditor/core/reconcile"
	"license-auditor/feature/history"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T, repo *history.Repository) *fiber.App {
	t.Helper()
	svc := NewService(Config{HistoryLimit: 10}, nil, repo, zap.NewNop())
	app := fiber.New()
	require.NoError(t, NewFeature(svc).Load(app))
	return app
}

func setupRepo(t *testing.T) *history.Repository {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	repo := history.NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func multipartRequest(t *testing.T, files map[string][2]string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, file := range files {
		part, err := w.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = io.WriteString(part, file[1])
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/audit", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleAudit(t *testing.T) {
	repo := setupRepo(t)
	app := setupApp(t, repo)

	req := multipartRequest(t, map[string][2]string{
		"license": {"license.txt", licenseReport},
		"objects": {"objects.csv", "Type,ID,Name\nCodeunit,60000,Import Engine\nTable,50005,Staging Table\n"},
	}, map[string]string{"sheet": "objects"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var outcome Outcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	require.Len(t, outcome.Violations, 1)
	assert.Equal(t, reconcile.Codeunit, outcome.Violations[0].ObjectType)
	assert.Equal(t, 2, outcome.Summary.TotalObjects)

	// The run is recorded and can be read back.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/audit/runs/"+outcome.RunID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var run history.RunRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "license.txt", run.LicenseSource)
	require.Len(t, run.Items, 1)
	assert.Equal(t, int64(60000), run.Items[0].ObjectID)
}

func TestHandleAudit_BadInput(t *testing.T) {
	app := setupApp(t, nil)

	tests := []struct {
		name  string
		files map[string][2]string
		want  int
	}{
		{
			name:  "Missing objects file",
			files: map[string][2]string{"license": {"license.txt", licenseReport}},
			want:  fiber.StatusBadRequest,
		},
		{
			name:  "Missing license file",
			files: map[string][2]string{"objects": {"objects.csv", "Type,ID,Name\n"}},
			want:  fiber.StatusBadRequest,
		},
		{
			name: "License without marker",
			files: map[string][2]string{
				"license": {"license.txt", noMarkerReport},
				"objects": {"objects.csv", "Type,ID,Name\n"},
			},
			want: fiber.StatusUnprocessableEntity,
		},
		{
			name: "Invalid object id",
			files: map[string][2]string{
				"license": {"license.txt", licenseReport},
				"objects": {"objects.csv", "Type,ID,Name\nPage,abc,Card\n"},
			},
			want: fiber.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(multipartRequest(t, tt.files, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHandleListRuns(t *testing.T) {
	repo := setupRepo(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second"} {
		_, err := repo.Save(context.Background(), history.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	app := setupApp(t, repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/audit/runs?limit=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Runs []history.RunRecord `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Runs, 1)
	assert.Equal(t, "second", body.Runs[0].ID)
}

func TestHandleGetRun_NotFound(t *testing.T) {
	app := setupApp(t, setupRepo(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/audit/runs/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHistoryDisabled(t *testing.T) {
	app := setupApp(t, nil)

	for _, path := range []string{"/audit/runs", "/audit/runs/some-id"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestFeature(t *testing.T) {
	f := NewFeature(NewService(Config{}, nil, nil, nil))
	assert.Equal(t, "audit", f.Name())
	assert.True(t, f.IsEnabled())
}
