package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handbookMD = `# Handbook

Welcome to the handbook. This paragraph explains what the handbook covers and who should read it.

## Setup

Install the tools, clone the repository, and read the contributing guide before opening a change.

### Local tools

Run the setup script and make sure every check passes on your machine before continuing further.

## Usage

Run the command against a directory of documents and collect the generated outline files afterwards.
`

type upload struct {
	name string
	body string
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Config{
		WorkerCount:    1,
		MaxQueueSize:   8,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		CacheSize:      8,
		ProcessTimeout: 10 * time.Second,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch, err := pipeline.NewOrchestrator(cfg, structure.NewAnalyzer(structure.DefaultConfig()), log)
	require.NoError(t, err)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg)
}

func multipartRequest(t *testing.T, target, field string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.APIKey = "secret" })

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	assert.Equal(t, http.StatusOK, serve(s, req).Code)

	assert.Equal(t, http.StatusOK, serve(s, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestOutline_Sync(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, multipartRequest(t, "/api/outline", "file", upload{"handbook.md", handbookMD}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "completed", rec.Header().Get("X-Outline-Status"))

	var res doctree.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Handbook", res.Title)
	assert.Equal(t, doctree.Outline{
		{Level: doctree.H1, Text: "Setup", Page: 1},
		{Level: doctree.H2, Text: "Local tools", Page: 1},
		{Level: doctree.H1, Text: "Usage", Page: 1},
	}, res.Outline)

	rec = serve(s, multipartRequest(t, "/api/outline", "file", upload{"again.md", handbookMD}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cached", rec.Header().Get("X-Outline-Status"))
}

func TestOutline_Tree(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, multipartRequest(t, "/api/outline?format=tree", "file", upload{"handbook.md", handbookMD}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Title string          `json:"title"`
		Tree  []*doctree.Node `json:"tree"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Handbook", body.Title)
	require.Len(t, body.Tree, 2)
	require.Len(t, body.Tree[0].Children, 1)
	assert.Equal(t, "Local tools", body.Tree[0].Children[0].Text)
}

func TestOutline_EmptyDocument(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, multipartRequest(t, "/api/outline", "file", upload{"empty.txt", ""}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"title":"","outline":[]}`, rec.Body.String())
}

func TestOutline_Rejections(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.MaxUploadBytes = 16 })

	rec := serve(s, multipartRequest(t, "/api/outline", "file", upload{"sheet.csv", "a,b"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, multipartRequest(t, "/api/outline", "file", upload{"big.md", handbookMD}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = serve(s, multipartRequest(t, "/api/outline", "other", upload{"a.md", "# A"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, multipartRequest(t, "/api/outline", "file", upload{"bad.docx", "not a zip"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestIngest_AndStatus(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, multipartRequest(t, "/api/ingest", "file", upload{"handbook.md", handbookMD}))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.JobID)
	assert.Equal(t, "/api/ingest/"+accepted.JobID+"/status", accepted.PollURL)

	var snap pipeline.JobSnapshot
	require.Eventually(t, func() bool {
		rec := serve(s, httptest.NewRequest(http.MethodGet, accepted.PollURL, nil))
		if rec.Code != http.StatusOK {
			return false
		}
		snap = pipeline.JobSnapshot{}
		return json.Unmarshal(rec.Body.Bytes(), &snap) == nil && snap.Status.Done()
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, pipeline.StatusCompleted, snap.Status)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "Handbook", snap.Result.Title)
	assert.Len(t, snap.Result.Outline, 3)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/ingest/missing/status", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchIngest(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, multipartRequest(t, "/api/ingest/batch", "files",
		upload{"handbook.md", handbookMD},
		upload{"sheet.csv", "a,b"},
	))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var body struct {
		Jobs []map[string]any `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Jobs, 2)
	assert.NotEmpty(t, body.Jobs[0]["job_id"])
	assert.Contains(t, body.Jobs[1]["error"], "unsupported")

	rec = serve(s, multipartRequest(t, "/api/ingest/batch", "files"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t, nil)
	serve(s, multipartRequest(t, "/api/outline", "file", upload{"handbook.md", handbookMD}))

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		QueueDepth int                    `json:"queue_depth"`
		Cached     int                    `json:"cached"`
		Processing pipeline.StatsSnapshot `json:"processing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Cached)
	assert.Equal(t, 1, body.Processing.ByStatus[pipeline.StatusCompleted])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "report.pdf", sanitizeFilename("../../etc/report.pdf"))
	assert.Equal(t, "unnamed", sanitizeFilename(""))
	assert.Equal(t, "a_b.md", sanitizeFilename(`a\b.md`))
}
