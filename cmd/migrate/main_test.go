package main

import (
	"path/filepath"
	"testing"
)

func TestDescriptionFromFilename(t *testing.T) {
	cases := map[string]string{
		"2024-06-01-003-create-meals.sql":         "create meals",
		"2024-06-01-004-create-daily-samples.sql": "create daily samples",
		"adhoc-fix.sql":                           "adhoc fix",
	}
	for in, want := range cases {
		if got := descriptionFromFilename(in); got != want {
			t.Errorf("descriptionFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestPending verifies applied files are skipped and the rest come back sorted.
func TestPending(t *testing.T) {
	files := []string{
		filepath.Join("db", "2024-06-01-003-create-meals.sql"),
		filepath.Join("db", "2024-06-01-001-create-migrations-and-users.sql"),
		filepath.Join("db", "2024-06-01-002-create-profiles.sql"),
	}
	applied := map[string]bool{"2024-06-01-001-create-migrations-and-users.sql": true}

	got := pending(files, applied)
	want := []string{
		filepath.Join("db", "2024-06-01-002-create-profiles.sql"),
		filepath.Join("db", "2024-06-01-003-create-meals.sql"),
	}
	if len(got) != len(want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pending[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
