package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// doJSON posts a JSON body to the router and returns the recorder.
func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInsert(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert",
		`{"series": "cpu_load", "data": {"value": 0.75}, "date": "2024-01-15T10:30:00Z"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp InsertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.ID != 1 {
		t.Errorf("id = %d, want 1", resp.ID)
	}

	// Row stored, view live.
	var contents string
	if err := db.QueryRow("SELECT contents FROM tsdata_cpu_load").Scan(&contents); err != nil {
		t.Fatalf("querying series view: %v", err)
	}
	if contents != `{"value": 0.75}` {
		t.Errorf("contents = %q", contents)
	}
}

func TestInsert_DateVariants(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	tests := []struct {
		name string
		date string // empty means omit the field
		want string
	}{
		{"rfc3339", "2024-01-15T10:30:00Z", "2024-01-15T10:30:00Z"},
		{"rfc3339 with offset", "2024-01-15T12:30:00+02:00", "2024-01-15T10:30:00Z"},
		{"naive datetime", "2024-01-15 10:30:00", "2024-01-15T10:30:00Z"},
		{"date only", "2024-01-15", "2024-01-15T00:00:00Z"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := fmt.Sprintf(`{"series": "s1", "data": {}, "date": %q}`, tt.date)
			w := doJSON(t, router, http.MethodPost, "/insert", body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
			}

			var stored string
			err := db.QueryRow("SELECT data_time FROM tsdata WHERE id = ?", i+1).Scan(&stored)
			if err != nil {
				t.Fatalf("reading back: %v", err)
			}
			if stored != tt.want {
				t.Errorf("data_time = %q, want %q", stored, tt.want)
			}
		})
	}
}

func TestInsert_DateOmittedDefaultsToNow(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert", `{"series": "s1", "data": {"v": 1}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var stored string
	if err := db.QueryRow("SELECT data_time FROM tsdata WHERE id = 1").Scan(&stored); err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if stored == "" {
		t.Error("data_time empty, want defaulted timestamp")
	}
}

func TestInsert_MalformedDate(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	// Present but unparseable never defaults; the request fails.
	w := doJSON(t, router, http.MethodPost, "/insert",
		`{"series": "s1", "data": {}, "date": "not a date"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status = %q, want error", resp.Status)
	}
	if !strings.Contains(resp.Error, "not a date") {
		t.Errorf("error %q should carry the original input", resp.Error)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM tsdata").Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if n != 0 {
		t.Errorf("row count = %d, want 0", n)
	}
}

func TestInsert_ConstraintViolation(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert",
		`{"series": "invalid-format", "data": {}}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status = %q, want error", resp.Status)
	}
	// The store's own diagnostic is passed through.
	if !strings.Contains(strings.ToLower(resp.Error), "constraint") {
		t.Errorf("error %q should be the store's constraint diagnostic", resp.Error)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM tsdata").Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if n != 0 {
		t.Errorf("row count = %d, want 0", n)
	}
}

func TestInsert_InvalidJSON(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestInsertBatch(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert/batch", `{
		"data_points": [
			{"series": "s1", "data": {"n": 1}, "date": "2024-01-15T10:00:00Z"},
			{"series": "s2", "data": {"n": 2}, "date": "2024-01-15T11:00:00Z"},
			{"series": "s1", "data": {"n": 3}, "date": "2024-01-15T12:00:00Z"}
		]
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var resp BatchInsertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.InsertedCount != 3 {
		t.Errorf("inserted_count = %d, want 3", resp.InsertedCount)
	}
	if len(resp.IDs) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(resp.IDs))
	}
	for i := 1; i < len(resp.IDs); i++ {
		if resp.IDs[i] <= resp.IDs[i-1] {
			t.Errorf("ids not increasing: %v", resp.IDs)
		}
	}

	// One view per distinct series.
	for _, view := range []string{"tsdata_s1", "tsdata_s2"} {
		var n int
		err := db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'view' AND name = ?", view,
		).Scan(&n)
		if err != nil {
			t.Fatalf("checking view %s: %v", view, err)
		}
		if n != 1 {
			t.Errorf("view %s missing", view)
		}
	}
}

func TestInsertBatch_Empty(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert/batch", `{"data_points": []}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != "batch cannot be empty" {
		t.Errorf("error = %q, want %q", resp.Error, "batch cannot be empty")
	}
}

func TestInsertBatch_TooLarge(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	var points []string
	for i := 0; i < 101; i++ {
		points = append(points, `{"series": "s1", "data": {}}`)
	}
	body := `{"data_points": [` + strings.Join(points, ",") + `]}`

	w := doJSON(t, router, http.MethodPost, "/insert/batch", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != "batch size cannot exceed 100 data points" {
		t.Errorf("error = %q", resp.Error)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM tsdata").Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if n != 0 {
		t.Errorf("row count = %d, want 0", n)
	}
}

func TestInsertBatch_AtomicRollback(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert/batch", `{
		"data_points": [
			{"series": "good_series", "data": {"n": 1}},
			{"series": "BAD SERIES", "data": {"n": 2}}
		]
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM tsdata").Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if n != 0 {
		t.Errorf("row count = %d, want 0 after rollback", n)
	}
}

// fakeMirror records mirrored series names.
type fakeMirror struct {
	series []string
}

func (m *fakeMirror) WriteSeriesPoint(series string, _ time.Time, _ json.RawMessage) {
	m.series = append(m.series, series)
}

func TestInsert_MirrorsCommittedPoints(t *testing.T) {
	srv, _ := testServer(t)
	mirror := &fakeMirror{}
	srv.mirror = mirror
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert", `{"series": "s1", "data": {}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if len(mirror.series) != 1 || mirror.series[0] != "s1" {
		t.Errorf("mirrored series = %v, want [s1]", mirror.series)
	}

	// Failed requests never reach the mirror.
	w = doJSON(t, router, http.MethodPost, "/insert", `{"series": "BAD SERIES", "data": {}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(mirror.series) != 1 {
		t.Errorf("mirror received points from a failed request: %v", mirror.series)
	}
}

func TestInsertBatch_MalformedDateAborts(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/insert/batch", `{
		"data_points": [
			{"series": "s1", "data": {}, "date": "2024-01-15"},
			{"series": "s1", "data": {}, "date": "garbage"}
		]
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM tsdata").Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if n != 0 {
		t.Errorf("row count = %d, want 0", n)
	}
}
