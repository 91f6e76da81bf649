package backups

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/duet/internal/backup"
	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "duet.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{Store: store}, dbPath
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, dbPath := setupTestDB(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	backups, err := backup.NewManager(dbPath).List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
}

func TestBackupRestore_Cancelled(t *testing.T) {
	ctx, dbPath := setupTestDB(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	backups, _ := backup.NewManager(dbPath).List()

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), in: strings.NewReader("n\n")}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	after, _ := backup.NewManager(dbPath).List()
	if len(after) != 1 {
		t.Errorf("cancelled restore should not snapshot, got %d backups", len(after))
	}
}

func TestBackupRestore_Confirmed(t *testing.T) {
	ctx, dbPath := setupTestDB(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	backups, _ := backup.NewManager(dbPath).List()

	cmd := &BackupRestoreCmd{BackupFile: backups[0].Path, in: strings.NewReader("yes\n")}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database missing after restore: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	name := "duet-20240101-1200.db"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := resolvePath(name, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, name) {
		t.Errorf("got %s", got)
	}
	if _, err := resolvePath("missing.db", dir); err == nil {
		t.Error("expected error for missing backup")
	}
}
