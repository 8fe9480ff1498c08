package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kradesk/internal/model"
)

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestKRACRUD(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := doJSON(router, http.MethodPost, "/api/kras",
		`{"kra_title":"A","department":"Eng","role":"Dev","year":2025,"impact":"High","description":"d","expectations":["x","y"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}
	var created model.KRA
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Title != "A" || len(created.Expectations) != 2 {
		t.Fatalf("unexpected created kra: %+v", created)
	}

	rec = doJSON(router, http.MethodGet, "/api/kras/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPut, "/api/kras/"+created.ID,
		`{"kra_title":"A2","department":"Eng","role":"Dev","description":"d2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status %d: %s", rec.Code, rec.Body.String())
	}
	var updated model.KRA
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Title != "A2" || updated.Impact != "Low" {
		t.Fatalf("unexpected updated kra: %+v", updated)
	}

	rec = doJSON(router, http.MethodDelete, "/api/kras/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status %d", rec.Code)
	}

	rec = doJSON(router, http.MethodGet, "/api/kras/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestKRAValidation(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"department":"Eng","role":"Dev","description":"d"}`},
		{"bad impact", `{"kra_title":"A","department":"Eng","role":"Dev","description":"d","impact":"HIGH"}`},
		{"not json", `not json`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(router, http.MethodPost, "/api/kras", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListKRAsWrappedShape(t *testing.T) {
	t.Parallel()

	router, st := newTestRouter(t)
	seedKRA(t, st, "k1", "A", "Eng", "Dev")

	rec := doJSON(router, http.MethodGet, "/api/kras", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var payload struct {
		Kras []model.KRA `json:"kras"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Kras) != 1 || payload.Kras[0].ID != "k1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUpdateMissingKRA(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rec := doJSON(router, http.MethodPut, "/api/kras/missing",
		`{"kra_title":"A","department":"Eng","role":"Dev","description":"d"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	router, st := newTestRouter(t)

	rec := doJSON(router, http.MethodGet, "/api/status", "")
	var status StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Initialized || status.TotalKRAs != 0 {
		t.Fatalf("empty store should not be initialized: %+v", status)
	}

	seedKRA(t, st, "k1", "A", "Eng", "Dev")
	rec = doJSON(router, http.MethodGet, "/api/status", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.Initialized || status.TotalKRAs != 1 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestDownloadTemplate(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rec := doJSON(router, http.MethodGet, "/api/kras/template", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "KRA_Import_Template.csv") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\xEF\xBB\xBF") {
		t.Fatal("template must start with a UTF-8 BOM")
	}
	if !strings.Contains(body, "KRA Title,Department,Role,Year,Impact,Description,Expectations") {
		t.Fatalf("missing header row: %q", strings.SplitN(body, "\n", 2)[0])
	}
}
