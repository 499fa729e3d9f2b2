package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"texturematch/types"
)

func sampleDatabase() *types.HashDatabase {
	db := types.NewHashDatabase()
	db.Add(types.Fingerprint{0x00, 0x01}, "a.png")
	db.Add(types.Fingerprint{0xff, 0x00}, "b.png")
	db.Add(types.Fingerprint{0x00, 0x01}, "c.png")
	return db
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "hash_database.cache")
	meta := CacheMeta{Derivation: "dhash:8;crop:none", ListingDigest: ListingDigest([]string{"a.png", "b.png", "c.png"})}

	if err := SaveHashDatabase(cachePath, sampleDatabase(), meta); err != nil {
		t.Fatalf("SaveHashDatabase: %v", err)
	}

	loaded, gotMeta, err := LoadHashDatabase(cachePath, LoadOptions{Derivation: "dhash:8;crop:none"})
	if err != nil {
		t.Fatalf("LoadHashDatabase: %v", err)
	}

	if loaded.Len() != 3 || loaded.DistinctKeys() != 2 {
		t.Fatalf("loaded Len=%d Distinct=%d, want 3 and 2", loaded.Len(), loaded.DistinctKeys())
	}
	want := sampleDatabase().Entries()
	for i, entry := range loaded.Entries() {
		if entry.Name != want[i].Name || !entry.Fingerprint.Equal(want[i].Fingerprint) {
			t.Errorf("entry %d = %+v, want %+v", i, entry, want[i])
		}
	}
	if gotMeta.FormatVersion != CacheFormatVersion {
		t.Errorf("FormatVersion = %q", gotMeta.FormatVersion)
	}
	if gotMeta.BuiltAt.IsZero() {
		t.Error("BuiltAt not recorded")
	}

	if _, err := os.Stat(cachePath + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestLoadMissingCache(t *testing.T) {
	_, _, err := LoadHashDatabase(filepath.Join(t.TempDir(), "missing.cache"), LoadOptions{})
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("err = %v, want ErrCacheNotFound", err)
	}
}

func TestLoadCorruptCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "hash_database.cache")
	if err := os.WriteFile(cachePath, []byte("this is not sqlite at all, just some bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadHashDatabase(cachePath, LoadOptions{}); err == nil {
		t.Fatal("expected error for corrupt cache")
	}
}

func TestLoadRejectsMismatchedMeta(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "hash_database.cache")
	meta := CacheMeta{Derivation: "dhash:8;crop:none", ListingDigest: ListingDigest([]string{"a.png"})}
	if err := SaveHashDatabase(cachePath, sampleDatabase(), meta); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts LoadOptions
		want error
	}{
		{"derivation", LoadOptions{Derivation: "dhash:16;crop:none"}, ErrDerivationMismatch},
		{"stale listing", LoadOptions{CheckStale: true, ListingDigest: ListingDigest([]string{"a.png", "new.png"})}, ErrStaleCache},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadHashDatabase(cachePath, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	// a changed listing is ignored unless staleness checks are enabled
	if _, _, err := LoadHashDatabase(cachePath, LoadOptions{ListingDigest: "other"}); err != nil {
		t.Errorf("presence-only load failed: %v", err)
	}
}

func TestLoadRejectsOldFormat(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "hash_database.cache")
	if err := SaveHashDatabase(cachePath, sampleDatabase(), CacheMeta{FormatVersion: "0"}); err != nil {
		t.Fatal(err)
	}

	_, _, err := LoadHashDatabase(cachePath, LoadOptions{})
	if !errors.Is(err, ErrCacheVersion) {
		t.Fatalf("err = %v, want ErrCacheVersion", err)
	}
}

func TestGetCacheStats(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "hash_database.cache")
	if err := SaveHashDatabase(cachePath, sampleDatabase(), CacheMeta{Derivation: "dhash:8;crop:none"}); err != nil {
		t.Fatal(err)
	}

	stats, err := GetCacheStats(cachePath)
	if err != nil {
		t.Fatalf("GetCacheStats: %v", err)
	}
	if stats.Entries != 3 || stats.DistinctKeys != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.SizeBytes <= 0 {
		t.Error("SizeBytes not populated")
	}
	if stats.Meta.Derivation != "dhash:8;crop:none" {
		t.Errorf("Meta.Derivation = %q", stats.Meta.Derivation)
	}
}

func TestListingDigestOrderSensitive(t *testing.T) {
	a := ListingDigest([]string{"a.png", "b.png"})
	b := ListingDigest([]string{"a.png", "b.png"})
	c := ListingDigest([]string{"ab.png"})
	if a != b {
		t.Error("digest not deterministic")
	}
	if a == c {
		t.Error("separator missing: different listings collide")
	}
}

func TestCachePathWithURICharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "set?b #1%")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cachePath := filepath.Join(dir, "hash_database.cache")

	if err := SaveHashDatabase(cachePath, sampleDatabase(), CacheMeta{Derivation: "dhash:8;crop:none"}); err != nil {
		t.Fatalf("SaveHashDatabase: %v", err)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache not written at %s: %v", cachePath, err)
	}

	loaded, _, err := LoadHashDatabase(cachePath, LoadOptions{Derivation: "dhash:8;crop:none"})
	if err != nil {
		t.Fatalf("LoadHashDatabase: %v", err)
	}
	if loaded.Len() != 3 {
		t.Errorf("Len() = %d, want 3", loaded.Len())
	}
	if _, err := GetCacheStats(cachePath); err != nil {
		t.Errorf("GetCacheStats: %v", err)
	}
}

func TestCacheDSNEscapesPath(t *testing.T) {
	dsn, err := cacheDSN("/refs/a?b#c/cache", "ro")
	if err != nil {
		t.Fatal(err)
	}
	if want := "file:///refs/a%3Fb%23c/cache?mode=ro"; dsn != want {
		t.Errorf("cacheDSN = %q, want %q", dsn, want)
	}
}
