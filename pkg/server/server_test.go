package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"biscuit-hq/bakery/pkg/config"
	"biscuit-hq/bakery/pkg/playground"
	"biscuit-hq/bakery/pkg/samples"
	"biscuit-hq/bakery/pkg/snippet"
	"biscuit-hq/bakery/pkg/telemetry/metrics"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "demo.yaml"), []byte(`
name: demo
verifier_code: 'allow if true;'
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	gallery := samples.NewGallery(dir)
	if err := gallery.Load(); err != nil {
		t.Fatal(err)
	}

	return NewServer(config.Default(), Options{
		Playground: playground.New(),
		Snippets:   snippet.NewMemoryStore(),
		Gallery:    gallery,
		Metrics:    metrics.NewCollector("bakery"),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestExecuteEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	verifier := `allow if user("alice");`
	rec := do(t, h, "POST", "/v1/execute", playground.Request{
		TokenBlocks:  []string{`user("alice");`},
		VerifierCode: &verifier,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result playground.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result.VerifierResult == nil || *result.VerifierResult != "Success" {
		t.Errorf("verifier result = %v", result.VerifierResult)
	}
	if len(result.TokenBlocks) != 1 {
		t.Errorf("token blocks = %d, want 1", len(result.TokenBlocks))
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response missing request ID header")
	}
}

func TestExecuteRejectsBadJSON(t *testing.T) {
	h := testServer(t).Handler()

	req := httptest.NewRequest("POST", "/v1/execute", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExecuteMethodNotAllowed(t *testing.T) {
	h := testServer(t).Handler()
	rec := do(t, h, "GET", "/v1/execute", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestSamplesEndpoints(t *testing.T) {
	h := testServer(t).Handler()

	rec := do(t, h, "GET", "/v1/samples", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []samples.Sample
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "demo" {
		t.Errorf("samples = %+v", list)
	}

	if rec := do(t, h, "GET", "/v1/samples/demo", nil); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
	if rec := do(t, h, "GET", "/v1/samples/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing sample status = %d", rec.Code)
	}
}

func TestSnippetEndpoints(t *testing.T) {
	h := testServer(t).Handler()

	rec := do(t, h, "POST", "/v1/snippets", snippet.Snippet{
		TokenBlocks:  []string{`user("alice");`},
		VerifierCode: "allow if true;",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created snippet.Snippet
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created snippet has no ID")
	}

	rec = do(t, h, "GET", "/v1/snippets/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got snippet.Snippet
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.VerifierCode != "allow if true;" {
		t.Errorf("verifier code = %q", got.VerifierCode)
	}

	if rec := do(t, h, "GET", "/v1/snippets/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing snippet status = %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := testServer(t).Handler()

	if rec := do(t, h, "GET", "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	// Generate one execution so counters exist.
	verifier := "allow if true;"
	do(t, h, "POST", "/v1/execute", playground.Request{VerifierCode: &verifier})

	rec := do(t, h, "GET", "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("bakery_executions_total")) {
		t.Error("metrics output missing execution counter")
	}
}
