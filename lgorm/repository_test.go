package lgorm

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/getlattice/lattice/rebac"
)

// document is the concrete collection used by the access-list tests.
type document struct {
	ID    string `gorm:"primaryKey;column:id"`
	Title string `gorm:"column:title"`
}

func (document) TableName() string { return "documents" }

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "lattice_test.db")
	db, err := Open("sqlite", dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	return db
}

func TestRepositoryMatchTuplePrefix(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := repo.WriteTuple(ctx, "user:1", "owner", "doc:42"); err != nil {
		t.Fatalf("WriteTuple() error = %v", err)
	}
	// Duplicate writes are a no-op.
	if err := repo.WriteTuple(ctx, "user:1", "owner", "doc:42"); err != nil {
		t.Fatalf("duplicate WriteTuple() error = %v", err)
	}

	found, err := repo.MatchTuplePrefix(ctx, "user:1#owner@doc:42")
	if err != nil {
		t.Fatalf("MatchTuplePrefix() error = %v", err)
	}
	if !found {
		t.Error("exact tuple not found")
	}

	// Prefix reaches tuples scoped under the object.
	found, err = repo.MatchTuplePrefix(ctx, "user:1#owner@doc:")
	if err != nil {
		t.Fatalf("MatchTuplePrefix() error = %v", err)
	}
	if !found {
		t.Error("tuple prefix not matched")
	}

	found, err = repo.MatchTuplePrefix(ctx, "user:2#owner@doc:42")
	if err != nil {
		t.Fatalf("MatchTuplePrefix() error = %v", err)
	}
	if found {
		t.Error("unrelated tuple matched")
	}
}

func TestRepositoryRejectsInvalidTuples(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := repo.WriteTuple(context.Background(), "user1", "owner", "doc:42"); err == nil {
		t.Error("expected validation error for malformed subject")
	}
}

func TestIndexMaterializerRefresh(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := repo.WriteTuple(ctx, "user:1", "owner", "doc:42"); err != nil {
		t.Fatalf("WriteTuple() error = %v", err)
	}

	m := NewIndexMaterializer(db)
	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	entries, err := repo.ReadIndexEntries(ctx, "user:1#owner")
	if err != nil {
		t.Fatalf("ReadIndexEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry.Entity != "doc:42#owner" {
		t.Errorf("Entity = %q", entry.Entity)
	}
	if !reflect.DeepEqual(entry.InheritanceTree, []string{"owner"}) {
		t.Errorf("InheritanceTree = %v", entry.InheritanceTree)
	}

	// Refresh is a full rebuild, not an append.
	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}
	entries, _ = repo.ReadIndexEntries(ctx, "user:1#owner")
	if len(entries) != 1 {
		t.Errorf("got %d entries after second refresh, want 1", len(entries))
	}
}

func TestIndexMaterializerApplyWildcard(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	m := NewIndexMaterializer(db)
	grants := []rebac.Grant{{
		Subject:         "user:1",
		Permission:      "read",
		Role:            rebac.Wildcard,
		Object:          "doc:42",
		InheritanceTree: []string{"admin", "read"},
	}}
	if err := m.Apply(ctx, grants); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	entries, err := repo.ReadIndexEntries(ctx, "user:1#read")
	if err != nil {
		t.Fatalf("ReadIndexEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry.Entity != rebac.Wildcard || entry.EntityID != rebac.Wildcard ||
		entry.EntityType != rebac.Wildcard || entry.Relation != rebac.Wildcard {
		t.Errorf("wildcard entry = %+v", entry)
	}
	if !reflect.DeepEqual(entry.InheritanceTree, []string{"admin", "read"}) {
		t.Errorf("InheritanceTree = %v", entry.InheritanceTree)
	}
}

func TestRepositoryListAccessible(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.AutoMigrate(&document{}); err != nil {
		t.Fatalf("migrate documents: %v", err)
	}

	for _, id := range []string{"42", "9", "7"} {
		if err := db.Create(&document{ID: id, Title: "doc " + id}).Error; err != nil {
			t.Fatalf("seed document %s: %v", id, err)
		}
	}

	// Direct-tuple reachability: user:1 may read doc:42.
	if err := repo.WriteTuple(ctx, "user:1", "read", "doc:42"); err != nil {
		t.Fatalf("WriteTuple() error = %v", err)
	}

	// Index reachability: a wildcard index entry plus an actor-index
	// association makes doc:9 reachable.
	m := NewIndexMaterializer(db)
	if err := m.Apply(ctx, []rebac.Grant{{
		Subject:         "doc:9",
		Permission:      "read",
		Role:            rebac.Wildcard,
		Object:          rebac.Wildcard,
		InheritanceTree: []string{"read"},
	}}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if err := repo.WriteActorEntry(ctx, "user:1", "doc:9#read"); err != nil {
		t.Fatalf("WriteActorEntry() error = %v", err)
	}

	rows, err := repo.ListAccessible(ctx, rebac.DialectPostgres,
		"documents", "user:1#read@doc:", "user:1", "doc", "read")
	if err != nil {
		t.Fatalf("ListAccessible() error = %v", err)
	}

	ids := make(map[string]bool)
	for _, row := range rows {
		ids[fmt.Sprint(row["id"])] = true
	}

	if !ids["42"] {
		t.Error("doc 42 missing from access list (direct tuple path)")
	}
	if !ids["9"] {
		t.Error("doc 9 missing from access list (index path)")
	}
	if ids["7"] {
		t.Error("doc 7 unexpectedly present in access list")
	}
}
