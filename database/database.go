package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"texturematch/logging"
	"texturematch/types"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
)

// CacheFormatVersion is bumped whenever the cache layout changes
const CacheFormatVersion = "1"

var (
	// ErrCacheNotFound means no cache artifact exists at the path
	ErrCacheNotFound = errors.New("cache not found")
	// ErrCacheVersion means the cache was written by an incompatible build
	ErrCacheVersion = errors.New("cache format version mismatch")
	// ErrDerivationMismatch means the cached fingerprints used other parameters
	ErrDerivationMismatch = errors.New("cache derivation mismatch")
	// ErrStaleCache means the reference folder changed since the cache was built
	ErrStaleCache = errors.New("cache is stale")
)

// CacheMeta describes how a cache artifact was produced
type CacheMeta struct {
	FormatVersion string
	Derivation    string
	ListingDigest string
	BuiltAt       time.Time
}

// LoadOptions controls which metadata must match for a cache to be accepted
type LoadOptions struct {
	Derivation    string
	ListingDigest string
	CheckStale    bool
}

// CacheStats contains statistics about a cache artifact
type CacheStats struct {
	Entries      int
	DistinctKeys int
	SizeBytes    int64
	Meta         CacheMeta
}

// InitDatabase opens path and creates the cache schema if needed
func InitDatabase(dbPath string) (*sql.DB, error) {
	dsn, err := cacheDSN(dbPath, "rwc")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS fingerprints (
		seq INTEGER PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		name TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fingerprint ON fingerprints(fingerprint);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenDatabase opens an existing cache read-only
func OpenDatabase(dbPath string) (*sql.DB, error) {
	dsn, err := cacheDSN(dbPath, "ro")
	if err != nil {
		return nil, err
	}
	return sql.Open("sqlite3", dsn)
}

// cacheDSN builds a sqlite URI for dbPath. The path is percent-encoded so
// '?', '#' and '%' in folder names stay part of the file name.
func cacheDSN(dbPath, mode string) (string, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("resolve cache path: %w", err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=" + mode}
	return u.String(), nil
}

// ListingDigest hashes a sorted file listing so a later run can tell whether
// the reference folder gained, lost or renamed files
func ListingDigest(names []string) string {
	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SaveHashDatabase persists hashDB to cachePath. The cache is written to a
// temporary file and renamed into place while holding the cache lock.
func SaveHashDatabase(cachePath string, hashDB *types.HashDatabase, meta CacheMeta) error {
	lock := flock.New(cachePath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer lock.Unlock()

	tmpPath := cachePath + ".tmp"
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale temp file: %w", err)
	}

	if err := writeCache(tmpPath, hashDB, meta); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, cachePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	logging.DebugLog("Saved %d fingerprints to cache %s", hashDB.Len(), cachePath)
	return nil
}

func writeCache(path string, hashDB *types.HashDatabase, meta CacheMeta) error {
	db, err := InitDatabase(path)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO fingerprints (seq, fingerprint, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range hashDB.Entries() {
		if _, err := stmt.Exec(i, entry.Fingerprint.String(), entry.Name); err != nil {
			return fmt.Errorf("insert %s: %w", entry.Name, err)
		}
	}

	if meta.FormatVersion == "" {
		meta.FormatVersion = CacheFormatVersion
	}
	if meta.BuiltAt.IsZero() {
		meta.BuiltAt = time.Now()
	}
	values := map[string]string{
		"format_version": meta.FormatVersion,
		"derivation":     meta.Derivation,
		"listing_digest": meta.ListingDigest,
		"built_at":       meta.BuiltAt.UTC().Format(time.RFC3339),
		"entry_count":    strconv.Itoa(hashDB.Len()),
	}
	for key, value := range values {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("write meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache: %w", err)
	}
	return db.Close()
}

// LoadHashDatabase reads a cache artifact. Any returned error means the
// caller should rebuild from the source images.
func LoadHashDatabase(cachePath string, opts LoadOptions) (*types.HashDatabase, CacheMeta, error) {
	if _, err := os.Stat(cachePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, CacheMeta{}, ErrCacheNotFound
		}
		return nil, CacheMeta{}, fmt.Errorf("stat cache: %w", err)
	}

	lock := flock.New(cachePath + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, CacheMeta{}, fmt.Errorf("lock cache: %w", err)
	}
	defer lock.Unlock()

	db, err := OpenDatabase(cachePath)
	if err != nil {
		return nil, CacheMeta{}, fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	meta, err := readMeta(db)
	if err != nil {
		return nil, CacheMeta{}, err
	}

	if meta.FormatVersion != CacheFormatVersion {
		return nil, meta, fmt.Errorf("%w: found %q, want %q", ErrCacheVersion, meta.FormatVersion, CacheFormatVersion)
	}
	if opts.Derivation != "" && meta.Derivation != opts.Derivation {
		return nil, meta, fmt.Errorf("%w: cached %q, requested %q", ErrDerivationMismatch, meta.Derivation, opts.Derivation)
	}
	if opts.CheckStale && meta.ListingDigest != opts.ListingDigest {
		return nil, meta, ErrStaleCache
	}

	rows, err := db.Query(`SELECT fingerprint, name FROM fingerprints ORDER BY seq`)
	if err != nil {
		return nil, meta, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	hashDB := types.NewHashDatabase()
	for rows.Next() {
		var hexFP, name string
		if err := rows.Scan(&hexFP, &name); err != nil {
			return nil, meta, fmt.Errorf("scan fingerprint row: %w", err)
		}
		fp, err := types.ParseFingerprint(hexFP)
		if err != nil {
			return nil, meta, err
		}
		hashDB.Add(fp, name)
	}
	if err := rows.Err(); err != nil {
		return nil, meta, fmt.Errorf("read fingerprints: %w", err)
	}

	logging.DebugLog("Loaded %d fingerprints from cache %s (built %s)",
		hashDB.Len(), cachePath, meta.BuiltAt.Format(time.RFC3339))

	return hashDB, meta, nil
}

func readMeta(db *sql.DB) (CacheMeta, error) {
	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return CacheMeta{}, fmt.Errorf("read cache meta: %w", err)
	}
	defer rows.Close()

	var meta CacheMeta
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return CacheMeta{}, fmt.Errorf("scan cache meta: %w", err)
		}
		switch key {
		case "format_version":
			meta.FormatVersion = value
		case "derivation":
			meta.Derivation = value
		case "listing_digest":
			meta.ListingDigest = value
		case "built_at":
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				meta.BuiltAt = t
			}
		}
	}
	if err := rows.Err(); err != nil {
		return CacheMeta{}, fmt.Errorf("read cache meta: %w", err)
	}
	return meta, nil
}

// GetCacheStats retrieves statistics about a cache artifact
func GetCacheStats(cachePath string) (*CacheStats, error) {
	info, err := os.Stat(cachePath)
	if err != nil {
		return nil, err
	}

	db, err := OpenDatabase(cachePath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	stats := CacheStats{SizeBytes: info.Size()}

	if err := db.QueryRow("SELECT COUNT(*) FROM fingerprints").Scan(&stats.Entries); err != nil {
		return nil, fmt.Errorf("failed to count fingerprints: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(DISTINCT fingerprint) FROM fingerprints").Scan(&stats.DistinctKeys); err != nil {
		return nil, fmt.Errorf("failed to count distinct fingerprints: %w", err)
	}

	stats.Meta, err = readMeta(db)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
