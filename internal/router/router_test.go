package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"pet-lostfound/internal/config"
	"pet-lostfound/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()

	fixturePath := filepath.Join(dir, "candidates.json")
	fixtureRaw := []byte(`[
		{"pet_id": "pet-a", "score": 0.95, "band": "strong"},
		{"pet_id": "pet-b", "score": 0.70, "band": "moderate"},
		{"pet_id": "pet-c", "score": 0.30, "band": "weak"}
	]`)
	if err := os.WriteFile(fixturePath, fixtureRaw, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	contractsDir := filepath.Join(dir, "contracts")
	if err := os.Mkdir(contractsDir, 0o700); err != nil {
		t.Fatalf("mkdir contracts: %v", err)
	}
	if err := os.WriteFile(filepath.Join(contractsDir, "openapi.yaml"), []byte("openapi: 3.0.3\n"), 0o600); err != nil {
		t.Fatalf("write contract: %v", err)
	}

	cfg := config.New()
	cfg.SearchFixture = fixturePath
	cfg.ContractsDir = contractsDir

	ts := httptest.NewServer(router.NewRouter(router.Options{Cfg: cfg}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_CaseLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// 1) Dueño reporta caso
	caseID := createCase(t, ts.URL, map[string]any{
		"user_id":  "user-1",
		"type":     "lost",
		"species":  "cat",
		"geohash6": "9q8yyk",
		"consent":  map[string]any{"shareVectors": true, "sharePhotos": true},
	})

	// 2) Sube una foto
	photoID := uploadPhoto(t, ts.URL, caseID, "front.jpg", []byte("jpeg-bytes"))

	// 3) Detalle interno: caso + foto
	{
		st, body := doReq(t, ts.URL, "GET", "/internal/cases/"+caseID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 case detail, got %d body=%s", st, string(body))
		}
		var resp struct {
			Case struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"case"`
			Photos []struct {
				ID   string `json:"id"`
				Hash string `json:"hash"`
			} `json:"photos"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Case.ID != caseID || resp.Case.Status != "open" {
			t.Fatalf("unexpected case detail: %s", string(body))
		}
		if len(resp.Photos) != 1 || resp.Photos[0].ID != photoID {
			t.Fatalf("expected the uploaded photo, got %s", string(body))
		}
		if resp.Photos[0].Hash == "" {
			t.Fatalf("expected photo hash recorded")
		}
	}

	// 4) Búsqueda con top_k explícito: corta el fixture
	{
		st, body := doReq(t, ts.URL, "POST", "/v1/search", map[string]any{
			"case_id": caseID,
			"top_k":   2,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d body=%s", st, string(body))
		}
		var resp struct {
			Candidates []struct {
				PetID string `json:"pet_id"`
				Band  string `json:"band"`
			} `json:"candidates"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %s", string(body))
		}
		if resp.Candidates[0].PetID != "pet-a" || resp.Candidates[0].Band != "strong" {
			t.Fatalf("unexpected first candidate: %s", string(body))
		}
	}

	// 5) Búsqueda sin top_k: usa el default (devuelve todo el fixture)
	{
		st, body := doReq(t, ts.URL, "POST", "/v1/search", map[string]any{
			"case_id": caseID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 search default, got %d body=%s", st, string(body))
		}
		var resp struct {
			Candidates []json.RawMessage `json:"candidates"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Candidates) != 3 {
			t.Fatalf("expected 3 candidates with default top_k, got %s", string(body))
		}
	}

	// 6) El operador registra una decisión sobre un candidato
	reviewID := ""
	{
		st, body := doReq(t, ts.URL, "POST", "/internal/cases/"+caseID+"/reviews", map[string]any{
			"candidate_pet_id": "pet-a",
			"band":             "strong",
			"score":            0.95,
			"decision":         "confirmed",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 record review, got %d body=%s", st, string(body))
		}
		var resp struct {
			ReviewID string `json:"review_id"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ReviewID == "" {
			t.Fatalf("record review: missing review_id body=%s", string(body))
		}
		reviewID = resp.ReviewID
	}

	// 7) El historial del caso muestra la decisión
	{
		st, body := doReq(t, ts.URL, "GET", "/internal/cases/"+caseID+"/reviews", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list reviews, got %d body=%s", st, string(body))
		}
		var resp struct {
			Reviews []struct {
				ID       string `json:"id"`
				Decision string `json:"decision"`
			} `json:"reviews"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Reviews) != 1 || resp.Reviews[0].ID != reviewID || resp.Reviews[0].Decision != "confirmed" {
			t.Fatalf("unexpected reviews: %s", string(body))
		}
	}

	// 8) Export de privacidad incluye caso y fotos
	{
		st, body := doReq(t, ts.URL, "GET", "/internal/cases/"+caseID+"/export", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 export, got %d body=%s", st, string(body))
		}
		var resp struct {
			Case struct {
				ID string `json:"id"`
			} `json:"case"`
			Photos []json.RawMessage `json:"photos"`
			Alerts []json.RawMessage `json:"alerts"`
			Events []json.RawMessage `json:"events"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Case.ID != caseID || len(resp.Photos) != 1 {
			t.Fatalf("unexpected export: %s", string(body))
		}
		if resp.Alerts == nil || resp.Events == nil {
			t.Fatalf("export must include alerts/events arrays: %s", string(body))
		}
	}

	// 9) Borrado: primera vez deleted=true, segunda deleted=false
	{
		st, body := doReq(t, ts.URL, "DELETE", "/internal/cases/"+caseID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 erase, got %d body=%s", st, string(body))
		}
		var resp struct {
			Deleted bool `json:"deleted"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.Deleted {
			t.Fatalf("expected deleted=true, got %s", string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "DELETE", "/internal/cases/"+caseID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 erase #2, got %d body=%s", st, string(body))
		}
		var resp struct {
			Deleted bool `json:"deleted"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Deleted {
			t.Fatalf("expected deleted=false on second erase, got %s", string(body))
		}
	}

	// 10) El detalle ya no existe
	{
		st, _ := doReq(t, ts.URL, "GET", "/internal/cases/"+caseID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after erase, got %d", st)
		}
	}

	// 11) Las reviews cayeron con la cascada del erase
	{
		st, body := doReq(t, ts.URL, "GET", "/internal/cases/"+caseID+"/reviews", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list reviews after erase, got %d", st)
		}
		var resp struct {
			Reviews []json.RawMessage `json:"reviews"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Reviews) != 0 {
			t.Fatalf("expected no reviews after erase, got %s", string(body))
		}
	}
}

func TestHTTP_CreateCase_RejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	st, _ := doReq(t, ts.URL, "POST", "/v1/cases", map[string]any{
		"user_id":  "user-1",
		"type":     "stolen",
		"species":  "cat",
		"geohash6": "9q8yyk",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", st)
	}
}

func TestHTTP_Search_RejectsNonPositiveTopK(t *testing.T) {
	ts := newTestServer(t)

	st, _ := doReq(t, ts.URL, "POST", "/v1/search", map[string]any{
		"case_id": "case-1",
		"top_k":   0,
	})
	if st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for top_k=0, got %d", st)
	}
}

func TestHTTP_Reviews_UnknownCaseIs404(t *testing.T) {
	ts := newTestServer(t)

	st, _ := doReq(t, ts.URL, "POST", "/internal/cases/nope/reviews", map[string]any{
		"candidate_pet_id": "pet-a",
		"band":             "strong",
		"score":            0.9,
		"decision":         "confirmed",
	})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown case, got %d", st)
	}
}

func TestHTTP_UploadPhoto_Errors(t *testing.T) {
	ts := newTestServer(t)

	// Caso inexistente => 404
	{
		st, _ := doMultipart(t, ts.URL, "/v1/cases/nope/photos", "x.jpg", []byte("data"))
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown case, got %d", st)
		}
	}

	// Archivo vacío => 400
	caseID := createCase(t, ts.URL, map[string]any{
		"user_id": "user-1", "type": "lost", "species": "cat", "geohash6": "9q8yyk",
	})
	{
		st, _ := doMultipart(t, ts.URL, "/v1/cases/"+caseID+"/photos", "x.jpg", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty upload, got %d", st)
		}
	}
}

func TestHTTP_ServesContracts(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/docs/openapi.yaml", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 openapi contract, got %d", st)
	}
	if !bytes.Contains(body, []byte("openapi:")) {
		t.Fatalf("unexpected contract body: %s", string(body))
	}

	// asyncapi.yaml no existe en este workspace de test => 404
	st, _ = doReq(t, ts.URL, "GET", "/docs/asyncapi.yaml", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for missing contract, got %d", st)
	}
}

func TestHTTP_InternalFeeds_EmptyLists(t *testing.T) {
	ts := newTestServer(t)

	// Sin ingesta del edge, los feeds internos devuelven listas vacías
	// (nunca null).
	{
		st, body := doReq(t, ts.URL, "GET", "/internal/events", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 events feed, got %d", st)
		}
		var resp struct {
			Events []json.RawMessage `json:"events"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Events == nil || len(resp.Events) != 0 {
			t.Fatalf("expected empty events array, got %s", string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/internal/alerts", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 alerts feed, got %d", st)
		}
		var resp struct {
			Alerts []json.RawMessage `json:"alerts"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Alerts == nil || len(resp.Alerts) != 0 {
			t.Fatalf("expected empty alerts array, got %s", string(body))
		}
	}
}

func TestHTTP_LegacyAlertsAlias(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/alerts.json", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 legacy alerts alias, got %d", st)
	}
	var resp struct {
		Alerts []json.RawMessage `json:"alerts"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unexpected alias body: %s", string(body))
	}
	if resp.Alerts == nil {
		t.Fatalf("expected alerts array, got %s", string(body))
	}
}

func TestHTTP_CORSAllowsDevUI(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest("OPTIONS", ts.URL+"/v1/cases", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected dev origin allowed, got %q", got)
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
	if string(body) != "ok" {
		t.Fatalf("unexpected health body: %s", string(body))
	}
}

func createCase(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/v1/cases", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create case, got %d body=%s", st, string(body))
	}

	var resp struct {
		CaseID string `json:"case_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.CaseID == "" {
		t.Fatalf("create case: missing case_id body=%s", string(body))
	}
	return resp.CaseID
}

func uploadPhoto(t *testing.T, baseURL, caseID, filename string, contents []byte) string {
	t.Helper()

	st, body := doMultipart(t, baseURL, "/v1/cases/"+caseID+"/photos", filename, contents)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 upload photo, got %d body=%s", st, string(body))
	}

	var resp struct {
		PhotoID string `json:"photo_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.PhotoID == "" {
		t.Fatalf("upload photo: missing photo_id body=%s", string(body))
	}
	return resp.PhotoID
}

func doMultipart(t *testing.T, baseURL, path, filename string, contents []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(contents); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.WriteField("view", "front"); err != nil {
		t.Fatalf("write form field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest("POST", baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, body
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	return res.StatusCode, raw
}
