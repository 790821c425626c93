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
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/texgen/internal/config"
	"github.com/dgallion1/texgen/internal/pipeline"
	"github.com/dgallion1/texgen/internal/store"
)

const testKey = "test-key"

func newTestServer(t *testing.T, start bool) (*Server, *pipeline.Orchestrator) {
	t.Helper()
	cfg := config.Defaults()
	cfg.APIKey = testKey
	cfg.WorkerCount = 1
	cfg.MaxQueueSize = 4
	cfg.MaxUploadBytes = 1024

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, store.NewMemory(), log)
	if start {
		orch.Start(context.Background())
	}
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg), orch
}

func do(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// multipartBody builds a form with the given files under field plus
// extra text fields.
func multipartBody(t *testing.T, field string, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestHealth_NoAuth(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body)
	}
}

func TestAuth(t *testing.T) {
	s, _ := newTestServer(t, false)
	for name, header := range map[string]string{
		"missing": "",
		"wrong":   "Bearer nope",
		"scheme":  "Basic " + testKey,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/stats/render", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if _, ok := decode(t, rec)["error"]; !ok {
				t.Error("expected JSON error body")
			}
		})
	}
}

func TestRender_RoundTrip(t *testing.T) {
	s, _ := newTestServer(t, true)

	body, ct := multipartBody(t, "file", map[string]string{"notes.md": "# Intro\n\nHello 100%\n"}, map[string]string{"title": "My Notes"})
	rec := do(t, s, http.MethodPost, "/api/render", body, ct)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body)
	}
	resp := decode(t, rec)
	jobID, _ := resp["job_id"].(string)
	if jobID == "" {
		t.Fatalf("missing job_id in %v", resp)
	}

	var status map[string]any
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status = decode(t, do(t, s, http.MethodGet, "/api/render/"+jobID+"/status", nil, ""))
		if status["status"] == string(pipeline.StatusCompleted) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if status["status"] != string(pipeline.StatusCompleted) {
		t.Fatalf("job did not complete: %v", status)
	}

	rec = do(t, s, http.MethodGet, "/api/render/"+jobID+"/result", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/x-tex") {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `"notes.tex"`) {
		t.Errorf("unexpected disposition %q", cd)
	}
	out := rec.Body.String()
	for _, want := range []string{`\title{My Notes}`, `\section{Intro}`, `Hello 100\%`} {
		if !strings.Contains(out, want) {
			t.Errorf("result missing %q", want)
		}
	}

	stats := decode(t, do(t, s, http.MethodGet, "/api/stats/render", nil, ""))
	if n := stats["stats"].(map[string]any)["count"].(float64); n != 1 {
		t.Errorf("expected one render sample, got %v", n)
	}
}

func TestRender_Rejections(t *testing.T) {
	s, _ := newTestServer(t, false)

	body, ct := multipartBody(t, "file", map[string]string{"virus.exe": "MZ"}, nil)
	if rec := do(t, s, http.MethodPost, "/api/render", body, ct); rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported type: expected 400, got %d", rec.Code)
	}

	body, ct = multipartBody(t, "other", map[string]string{"a.txt": "x"}, nil)
	if rec := do(t, s, http.MethodPost, "/api/render", body, ct); rec.Code != http.StatusBadRequest {
		t.Errorf("missing file: expected 400, got %d", rec.Code)
	}

	body, ct = multipartBody(t, "file", map[string]string{"big.txt": strings.Repeat("x", 2048)}, nil)
	if rec := do(t, s, http.MethodPost, "/api/render", body, ct); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized: expected 413, got %d", rec.Code)
	}
}

func TestRenderStatusAndResult_Unknown(t *testing.T) {
	s, _ := newTestServer(t, false)
	for _, path := range []string{"/api/render/nope/status", "/api/render/nope/result"} {
		if rec := do(t, s, http.MethodGet, path, nil, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestRenderResult_NotFinished(t *testing.T) {
	s, orch := newTestServer(t, false)
	job := pipeline.NewJob("a.txt", []byte("x"), pipeline.Overrides{})
	if err := orch.Submit(job); err != nil {
		t.Fatal(err)
	}
	rec := do(t, s, http.MethodGet, "/api/render/"+job.ID+"/result", nil, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for queued job, got %d", rec.Code)
	}
}

func TestBatchRender(t *testing.T) {
	s, _ := newTestServer(t, false)
	body, ct := multipartBody(t, "files", map[string]string{
		"a.txt":   "alpha",
		"b.csv":   "x,y\n1,2\n",
		"c.bogus": "?",
	}, nil)
	rec := do(t, s, http.MethodPost, "/api/render/batch", body, ct)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body)
	}
	jobs := decode(t, rec)["jobs"].([]any)
	if len(jobs) != 3 {
		t.Fatalf("expected 3 results, got %d", len(jobs))
	}
	accepted, rejected := 0, 0
	for _, j := range jobs {
		m := j.(map[string]any)
		if _, ok := m["job_id"]; ok {
			accepted++
		}
		if _, ok := m["error"]; ok {
			rejected++
		}
	}
	if accepted != 2 || rejected != 1 {
		t.Errorf("expected 2 accepted and 1 rejected, got %d and %d", accepted, rejected)
	}
}

func TestBuild(t *testing.T) {
	s, _ := newTestServer(t, false)

	tree := `{"title":"Countries","children":[{"kind":"itemize","items":["France","UK"]}]}`
	rec := do(t, s, http.MethodPost, "/api/build", strings.NewReader(tree), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	want := "\\begin{itemize}\n\\item France\n\\item UK\n\\end{itemize}\n"
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("missing list in %q", rec.Body)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `"Countries.tex"`) {
		t.Errorf("unexpected disposition %q", cd)
	}
}

func TestBuild_Errors(t *testing.T) {
	s, _ := newTestServer(t, false)
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"children":`, http.StatusBadRequest},
		{"unknown kind", `{"children":[{"kind":"video"}]}`, http.StatusBadRequest},
		{"file node", `{"children":[{"kind":"text_from_file","path":"/etc/passwd"}]}`, http.StatusForbidden},
		{"too large", `{"title":"` + strings.Repeat("x", 2048) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/build", strings.NewReader(tt.body), "application/json")
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body)
			}
		})
	}
}

func TestFormats(t *testing.T) {
	s, _ := newTestServer(t, false)
	resp := decode(t, do(t, s, http.MethodGet, "/api/formats", nil, ""))
	if exts := resp["extensions"].([]any); len(exts) == 0 {
		t.Error("expected extensions")
	}
	if kinds := resp["node_kinds"].([]any); len(kinds) != 10 {
		t.Errorf("expected 10 node kinds, got %d", len(kinds))
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"../../etc/passwd.txt", "passwd.txt"},
		{`C:\docs\a.md`, `C:_docs_a.md`},
		{"", "unnamed"},
		{"report.pdf", "report.pdf"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
