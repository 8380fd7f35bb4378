package history

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/infrastructure/paths"
	"github.com/doeshing/readerstate/internal/ports"
)

// OpenLogFileName is the database kept next to pdf-history.json.
const OpenLogFileName = domain.HistoryStoreName + ".db"

// SQLiteOpenLog keeps every recorded open, unbounded, for usage statistics.
type SQLiteOpenLog struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// OpenLogPath returns where the open log lives for resolver.
func OpenLogPath(resolver *paths.Resolver) (string, error) {
	dir, err := resolver.Dir()
	if err != nil {
		return "", &domain.PathResolutionError{Store: OpenLogFileName, Mode: string(resolver.Mode()), Err: err}
	}
	return filepath.Join(dir, OpenLogFileName), nil
}

// NewSQLiteOpenLog opens (or creates) the database at path.
func NewSQLiteOpenLog(path string) (*SQLiteOpenLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	l := &SQLiteOpenLog{db: db, path: path}
	if err := l.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init %s: %w", path, err)
	}
	return l, nil
}

func (l *SQLiteOpenLog) init() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS opens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id TEXT,
		name TEXT,
		path TEXT NOT NULL,
		open_time INTEGER NOT NULL,
		total_pages INTEGER
	)`)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(`CREATE INDEX IF NOT EXISTS opens_path ON opens(path)`)
	return err
}

// Record appends one open.
func (l *SQLiteOpenLog) Record(entry domain.HistoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var pages interface{}
	if entry.TotalPages != nil {
		pages = int64(*entry.TotalPages)
	}
	_, err := l.db.Exec(`INSERT INTO opens (entry_id, name, path, open_time, total_pages) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Name, entry.Path, int64(entry.OpenTime), pages)
	return err
}

// Top returns the most opened documents, most opens first. The name is the
// one recorded by the latest open. limit <= 0 returns every document.
func (l *SQLiteOpenLog) Top(limit int) ([]domain.DocumentStat, error) {
	query := `SELECT path, name, COUNT(*) AS opens, MAX(open_time) AS last_open
		FROM opens GROUP BY path ORDER BY opens DESC, last_open DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.DocumentStat
	for rows.Next() {
		var (
			stat     domain.DocumentStat
			name     sql.NullString
			lastOpen int64
		)
		if err := rows.Scan(&stat.Path, &name, &stat.Opens, &lastOpen); err != nil {
			return nil, err
		}
		stat.Name = name.String
		stat.LastOpen = time.UnixMilli(lastOpen)
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// Count returns the number of recorded opens.
func (l *SQLiteOpenLog) Count() (int, error) {
	var n int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM opens`).Scan(&n)
	return n, err
}

// Clear deletes every recorded open.
func (l *SQLiteOpenLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.db.Exec(`DELETE FROM opens`)
	return err
}

// Close releases the database.
func (l *SQLiteOpenLog) Close() error {
	return l.db.Close()
}

// Path returns the database path.
func (l *SQLiteOpenLog) Path() string {
	return l.path
}

var _ ports.OpenLog = (*SQLiteOpenLog)(nil)
