package ingest

import (
	"context"
	"testing"
)

func TestValidatedSeries_ViewName(t *testing.T) {
	tests := []struct {
		series string
		want   string
	}{
		{"abc_123", "tsdata_abc_123"},
		{"x", "tsdata_x"},
		{"code_binary_sizes", "tsdata_code_binary_sizes"},
	}

	for _, tt := range tests {
		s := ValidatedSeries{name: tt.series}
		if got := s.ViewName(); got != tt.want {
			t.Errorf("ViewName(%q) = %q, want %q", tt.series, got, tt.want)
		}
	}
}

func TestSyncSeriesView_FiltersBySeries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	if _, err := repo.InsertOne(context.Background(), testPoint("s1", `{"a":1}`)); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if _, err := repo.InsertOne(context.Background(), testPoint("s2", `{"b":2}`)); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}

	// Each view sees only its own series.
	var contents string
	if err := db.QueryRow("SELECT contents FROM tsdata_s1").Scan(&contents); err != nil {
		t.Fatalf("querying tsdata_s1: %v", err)
	}
	if contents != `{"a":1}` {
		t.Errorf("tsdata_s1 contents = %q, want %q", contents, `{"a":1}`)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM tsdata_s2").Scan(&n); err != nil {
		t.Fatalf("querying tsdata_s2: %v", err)
	}
	if n != 1 {
		t.Errorf("tsdata_s2 rows = %d, want 1", n)
	}
}

func TestSyncSeriesView_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	// Repeated inserts into the same series redefine the view each time
	// without error and without accumulating definitions.
	for i := 0; i < 3; i++ {
		if _, err := repo.InsertOne(context.Background(), testPoint("s1", "{}")); err != nil {
			t.Fatalf("InsertOne #%d: %v", i, err)
		}
	}

	var defs int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'view' AND name = 'tsdata_s1'",
	).Scan(&defs)
	if err != nil {
		t.Fatalf("counting view definitions: %v", err)
	}
	if defs != 1 {
		t.Errorf("view definitions = %d, want 1", defs)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM tsdata_s1").Scan(&n); err != nil {
		t.Fatalf("querying view: %v", err)
	}
	if n != 3 {
		t.Errorf("view rows = %d, want 3", n)
	}
}
