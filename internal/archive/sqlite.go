package archive

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cailot/cool-runnings/internal/model"
)

// SQLiteArchive persists the draw history in a SQLite database.
type SQLiteArchive struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteArchive opens (or creates) the SQLite database and runs migrations.
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so validation reads don't block collector writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	a := &SQLiteArchive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite archive opened: %s", dbPath)
	return a, nil
}

func (a *SQLiteArchive) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS draws (
			draw_index INTEGER PRIMARY KEY,
			draw_date  INTEGER NOT NULL,
			w1 INTEGER NOT NULL,
			w2 INTEGER NOT NULL,
			w3 INTEGER NOT NULL,
			w4 INTEGER NOT NULL,
			w5 INTEGER NOT NULL,
			w6 INTEGER NOT NULL,
			w7 INTEGER NOT NULL,
			b1 INTEGER NOT NULL,
			b2 INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_draws_date ON draws(draw_date)`,
	}

	for _, s := range stmts {
		if _, err := a.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (a *SQLiteArchive) ListDrawsDescending() ([]model.Draw, error) {
	rows, err := a.db.Query(`SELECT draw_index, draw_date, w1,w2,w3,w4,w5,w6,w7, b1,b2
		FROM draws ORDER BY draw_index DESC`)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	var draws []model.Draw
	for rows.Next() {
		d, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		draws = append(draws, d)
	}
	return draws, rows.Err()
}

func (a *SQLiteArchive) FindByIndex(index int) (*model.Draw, error) {
	row := a.db.QueryRow(`SELECT draw_index, draw_date, w1,w2,w3,w4,w5,w6,w7, b1,b2
		FROM draws WHERE draw_index = ?`, index)
	d, err := scanDraw(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *SQLiteArchive) LatestDraw() (*model.Draw, error) {
	row := a.db.QueryRow(`SELECT draw_index, draw_date, w1,w2,w3,w4,w5,w6,w7, b1,b2
		FROM draws ORDER BY draw_index DESC LIMIT 1`)
	d, err := scanDraw(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *SQLiteArchive) SaveDraw(d model.Draw) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.db.Exec(`INSERT OR IGNORE INTO draws
		(draw_index, draw_date, w1,w2,w3,w4,w5,w6,w7, b1,b2)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		d.Index, d.Date.Unix(),
		d.Winning[0], d.Winning[1], d.Winning[2], d.Winning[3],
		d.Winning[4], d.Winning[5], d.Winning[6],
		d.Bonus[0], d.Bonus[1],
	)
	return err
}

func (a *SQLiteArchive) Count() (int, error) {
	var n int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM draws`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count draws: %w", err)
	}
	return n, nil
}

func (a *SQLiteArchive) Close() error {
	log.Println("[INFO] closing sqlite archive")
	return a.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraw(r rowScanner) (model.Draw, error) {
	var d model.Draw
	var ts int64
	err := r.Scan(&d.Index, &ts,
		&d.Winning[0], &d.Winning[1], &d.Winning[2], &d.Winning[3],
		&d.Winning[4], &d.Winning[5], &d.Winning[6],
		&d.Bonus[0], &d.Bonus[1])
	if err != nil {
		return d, err
	}
	d.Date = time.Unix(ts, 0).UTC()
	return d, nil
}
