package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSave(t *testing.T, store *Store, e ScoreEntry) {
	t.Helper()
	if _, err := store.SaveScore(e); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsScores(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	mustSave(t, store, ScoreEntry{Source: SourceLocal, Player: "ann", Score: 70, Length: 8})
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("")
	if err != nil || high != 70 {
		t.Errorf("HighScore() after reopen = %d, %v; expected 70", high, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, ScoreEntry{Source: SourceLocal, Player: "ann", Score: 100, Length: 11})
	mustSave(t, store, ScoreEntry{Source: SourceLocal, Player: "ann", Score: 50, Length: 6})
	mustSave(t, store, ScoreEntry{Source: SourceSSH, Player: "bob", Score: 200, Length: 21})
	mustSave(t, store, ScoreEntry{Source: SourceWeb, Score: 10, Length: 2})

	all, err := store.TopScores("", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 scores, got %d", len(all))
	}

	// Should be sorted descending
	expected := []int{200, 100, 50, 10}
	for i, score := range expected {
		if all[i].Score != score {
			t.Errorf("scores[%d] = %d, expected %d", i, all[i].Score, score)
		}
	}
	if all[0].Player != "bob" || all[0].Source != SourceSSH || all[0].Length != 21 {
		t.Errorf("unexpected top entry: %+v", all[0])
	}
	if all[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}

	local, err := store.TopScores(SourceLocal, 10)
	if err != nil {
		t.Fatalf("TopScores(local) failed: %v", err)
	}
	if len(local) != 2 {
		t.Errorf("Expected 2 local scores, got %d", len(local))
	}
}

func TestStoreDefaultSource(t *testing.T) {
	store := openTestStore(t)
	mustSave(t, store, ScoreEntry{Score: 30, Length: 4})

	entries, err := store.TopScores(SourceLocal, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries without a source should be stored as local, got %v", entries)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	// Save 5 scores
	for i := 0; i < 5; i++ {
		mustSave(t, store, ScoreEntry{Source: SourceLocal, Score: (i + 1) * 100})
	}

	// Request only top 3
	scores, err := store.TopScores("", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	// Non-positive limit falls back to 10
	scores, _ = store.TopScores("", 0)
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores with default limit, got %d", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No scores yet
	high, err := store.HighScore("")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty store, got %d", high)
	}

	mustSave(t, store, ScoreEntry{Source: SourceLocal, Score: 100})
	mustSave(t, store, ScoreEntry{Source: SourceSSH, Score: 300})
	mustSave(t, store, ScoreEntry{Source: SourceLocal, Score: 200})

	tests := []struct {
		source   string
		expected int
	}{
		{"", 300},
		{SourceLocal, 200},
		{SourceSSH, 300},
		{SourceWeb, 0},
	}
	for _, tc := range tests {
		high, err := store.HighScore(tc.source)
		if err != nil {
			t.Fatalf("HighScore(%q) failed: %v", tc.source, err)
		}
		if high != tc.expected {
			t.Errorf("HighScore(%q) = %d, expected %d", tc.source, high, tc.expected)
		}
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, ScoreEntry{Source: SourceLocal, Score: 100})
	mustSave(t, store, ScoreEntry{Source: SourceLocal, Score: 200})
	mustSave(t, store, ScoreEntry{Source: SourceSSH, Score: 300})

	// Clear only local scores
	n, err := store.ClearScores(SourceLocal)
	if err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("ClearScores(local) deleted %d rows, expected 2", n)
	}

	if local, _ := store.TopScores(SourceLocal, 10); len(local) != 0 {
		t.Errorf("Expected 0 local scores after clear, got %d", len(local))
	}
	if ssh, _ := store.TopScores(SourceSSH, 10); len(ssh) != 1 {
		t.Error("SSH scores should not be affected by clearing local")
	}

	if n, _ := store.ClearScores(""); n != 1 {
		t.Errorf("ClearScores(\"\") deleted %d rows, expected 1", n)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats("")
	if err != nil {
		t.Fatalf("Stats() on empty store failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected empty stats: %+v", empty)
	}

	mustSave(t, store, ScoreEntry{Source: SourceLocal, Score: 100, Length: 11})
	mustSave(t, store, ScoreEntry{Source: SourceLocal, Score: 50, Length: 6})
	mustSave(t, store, ScoreEntry{Source: SourceWeb, Score: 30, Length: 4})

	stats, err := store.Stats(SourceLocal)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 100 || stats.TotalScore != 150 || stats.BestLength != 11 {
		t.Errorf("unexpected local stats: %+v", stats)
	}
	if stats.AvgScore != 75 {
		t.Errorf("AvgScore = %v, expected 75", stats.AvgScore)
	}
	if time.Since(stats.LastPlayed) > 24*time.Hour {
		t.Errorf("LastPlayed = %v, expected a recent time", stats.LastPlayed)
	}

	bySource, err := store.StatsBySource()
	if err != nil {
		t.Fatalf("StatsBySource() failed: %v", err)
	}
	if len(bySource) != 2 {
		t.Fatalf("expected stats for 2 sources, got %d", len(bySource))
	}
	if web := bySource[SourceWeb]; web == nil || web.GamesCount != 1 || web.HighScore != 30 {
		t.Errorf("unexpected web stats: %+v", web)
	}
}

func TestStoreConcurrentWrites(t *testing.T) {
	store := openTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if _, err := store.SaveScore(ScoreEntry{Source: SourceWeb, Score: i*10 + j}); err != nil {
					t.Errorf("SaveScore() failed: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	stats, err := store.Stats(SourceWeb)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 40 {
		t.Errorf("GamesCount = %d, expected 40", stats.GamesCount)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestParseTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"time value", now, now},
		{"sqlite text", "2024-05-01 12:30:00", now},
		{"rfc3339 text", "2024-05-01T12:30:00Z", now},
		{"garbage", "yesterday", time.Time{}},
		{"null", nil, time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseTime(tc.in); !got.Equal(tc.want) {
				t.Errorf("parseTime(%v) = %v, expected %v", tc.in, got, tc.want)
			}
		})
	}
}
