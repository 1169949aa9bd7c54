package repo

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-idea-board/internal/domain"
)

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nope", "ideas.db")
	db, err := OpenSQLite(dsn)
	if db != nil || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("OpenSQLite(%q) = %v, %v", dsn, db, err)
	}
}

func TestOpenSQLite_Settings(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "ideas.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	pragma := func(name string) string {
		var v string
		if err := db.Raw("PRAGMA " + name).Row().Scan(&v); err != nil {
			t.Fatalf("PRAGMA %s: %v", name, err)
		}
		return strings.ToLower(v)
	}
	for name, want := range map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
	} {
		if got := pragma(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if n := sqlDB.Stats().MaxOpenConnections; n != 1 {
		t.Errorf("MaxOpenConnections = %d", n)
	}
}

func TestAutoMigrate_SlotsUsable(t *testing.T) {
	db, err := OpenSQLite("file:db_test_migrate?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("second AutoMigrate: %v", err)
	}
	if !db.Migrator().HasTable(&domain.SlotBlob{}) {
		t.Fatal("slots table missing")
	}

	in := domain.SlotBlob{Name: domain.SlotVotes.Key(), Payload: `["sample-1"]`, UpdatedAt: time.Now().UTC()}
	if err := db.Create(&in).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	var out domain.SlotBlob
	if err := db.First(&out, "name = ?", "user_votes").Error; err != nil || out.Payload != in.Payload {
		t.Fatalf("read back: %v %+v", err, out)
	}
}

func TestIsFilePath(t *testing.T) {
	for dsn, want := range map[string]bool{
		"ideas.db":           true,
		"/var/lib/ideas.db":  true,
		":memory:":           false,
		"file:x?mode=memory": false,
		"file:/tmp/ideas.db": false,
	} {
		if got := isFilePath(dsn); got != want {
			t.Errorf("isFilePath(%q) = %v", dsn, got)
		}
	}
}
