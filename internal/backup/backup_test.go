package backup

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/storage/sqlite"
)

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	current := time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func setupTestDB(t *testing.T) string {
	dbPath := filepath.Join(t.TempDir(), "macroplan.db")
	ctx := context.Background()

	store := sqlite.NewStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}
	defer store.Close()

	for _, id := range []string{"plan-1", "plan-2"} {
		plan := models.NewDietPlan(id, "week-"+id, "Plan "+id, time.Now())
		if err := store.SavePlan(ctx, plan); err != nil {
			t.Fatalf("failed to insert test plan: %v", err)
		}
	}

	return dbPath
}

func countPlans(t *testing.T, dbPath string) int {
	t.Helper()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM diet_plans").Scan(&count); err != nil {
		t.Fatalf("failed to count plans: %v", err)
	}
	return count
}

func addPlan(t *testing.T, dbPath, id string) {
	t.Helper()
	ctx := context.Background()

	store := sqlite.NewStore(dbPath)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("failed to load database: %v", err)
	}
	defer store.Close()

	if err := store.SavePlan(ctx, models.NewDietPlan(id, "w", id, time.Now())); err != nil {
		t.Fatalf("failed to save plan: %v", err)
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath, WithClock(stepClock()))
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Errorf("backup file was not created: %s", backupPath)
	}
	if filepath.Base(backupPath) != "macroplan-20250101-0801.db" {
		t.Errorf("unexpected backup name: %s", filepath.Base(backupPath))
	}

	if count := countPlans(t, backupPath); count != 2 {
		t.Errorf("expected 2 plans in backup, got %d", count)
	}
}

func TestBackupWithNoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("CreateBackup should fail when the database does not exist")
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath, WithClock(stepClock()), WithRetention(3))

	var created []string
	for i := 0; i < 5; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		created = append(created, path)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}

	// Newest first, oldest two pruned
	for i, want := range []string{created[4], created[3], created[2]} {
		if backups[i].Path != want {
			t.Errorf("backup %d: expected %s, got %s", i, want, backups[i].Path)
		}
	}
	if _, err := os.Stat(created[0]); !os.IsNotExist(err) {
		t.Errorf("oldest backup was not removed: %s", created[0])
	}
}

func TestDefaultRetention(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(stepClock()))

	for i := 0; i < 16; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 14 {
		t.Errorf("expected 14 backups, got %d", len(backups))
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(stepClock()))

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	// Unrelated files are ignored
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}

	for _, backup := range backups {
		if backup.Size == 0 {
			t.Error("backup size is 0")
		}
		if backup.Timestamp.IsZero() {
			t.Error("backup timestamp is zero")
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)

	fixed := time.Date(2025, 2, 3, 4, 5, 6, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		name := filepath.Base(path)
		if seen[name] {
			t.Errorf("duplicate backup filename: %s", name)
		}
		seen[name] = true
	}

	for _, name := range []string{
		"macroplan-20250203-0405.db",
		"macroplan-20250203-040506.db",
		"macroplan-20250203-040506-1.db",
		"macroplan-20250203-040506-2.db",
	} {
		if !seen[name] {
			t.Errorf("expected backup %s", name)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 4 {
		t.Errorf("expected all 4 backups to be listed, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(stepClock()))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	addPlan(t, dbPath, "plan-3")
	if count := countPlans(t, dbPath); count != 3 {
		t.Fatalf("expected 3 plans before restore, got %d", count)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	if count := countPlans(t, dbPath); count != 2 {
		t.Errorf("expected 2 plans after restore, got %d", count)
	}

	if preRestore == "" {
		t.Fatal("expected a snapshot of the database taken before restore")
	}
	if count := countPlans(t, preRestore); count != 3 {
		t.Errorf("expected pre-restore snapshot to hold 3 plans, got %d", count)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups after restore, got %d", len(backups))
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}
	invalidPath := filepath.Join(mgr.GetBackupDir(), "macroplan-20250101-0000.db")
	if err := os.WriteFile(invalidPath, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to create invalid file: %v", err)
	}

	if _, err := mgr.RestoreBackup(invalidPath); err == nil {
		t.Error("RestoreBackup should fail for an invalid backup")
	}

	if count := countPlans(t, dbPath); count != 2 {
		t.Errorf("database changed after failed restore: %d plans", count)
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("RestoreBackup should fail for a missing file")
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"macroplan-20250101-0801.db", true},
		{"macroplan-20250101-080130.db", true},
		{"macroplan-20250101-080130-7.db", true},
		{"macroplan-20250101-0801-x.db", false},
		{"otherapp-20250101-0801.db", false},
		{"macroplan-latest.db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseBackupName(tt.name); ok != tt.ok {
				t.Errorf("parseBackupName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}
