package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
	"github.com/boomerok2001-cpu/boomerbot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get returns the preferences of chatID, registering the subscriber if new.
func (s *SQLite) Get(ctx context.Context, chatID int64) (model.Preferences, error) {
	if err := s.ensureSubscriber(ctx, s.db, chatID); err != nil {
		return model.Preferences{}, err
	}
	return s.load(ctx, s.db, chatID)
}

// Toggle flips the flag of topic for chatID in a single statement.
func (s *SQLite) Toggle(ctx context.Context, chatID int64, topic model.Topic) (model.Preferences, error) {
	if !topic.Valid() {
		return s.Get(ctx, chatID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.ensureSubscriber(ctx, tx, chatID); err != nil {
		return model.Preferences{}, err
	}

	// Missing rows mean enabled, so the first toggle stores 0.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO topic_prefs (chat_id, topic, enabled) VALUES (?, ?, 0)
		 ON CONFLICT (chat_id, topic) DO UPDATE SET enabled = 1 - enabled`,
		chatID, topic.Key(),
	); err != nil {
		return model.Preferences{}, fmt.Errorf("toggle topic: %w", err)
	}

	p, err := s.load(ctx, tx, chatID)
	if err != nil {
		return model.Preferences{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Preferences{}, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

// List returns every subscriber in subscription order.
func (s *SQLite) List(ctx context.Context) ([]model.Preferences, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.chat_id, p.topic, p.enabled
		 FROM subscribers s
		 LEFT JOIN topic_prefs p ON p.chat_id = s.chat_id
		 ORDER BY s.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Preferences
	index := make(map[int64]int)
	for rows.Next() {
		var (
			chatID  int64
			topic   sql.NullString
			enabled sql.NullInt64
		)
		if err := rows.Scan(&chatID, &topic, &enabled); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		i, ok := index[chatID]
		if !ok {
			i = len(out)
			index[chatID] = i
			out = append(out, model.DefaultPreferences(chatID))
		}
		if topic.Valid {
			applyFlag(&out[i], topic.String, enabled.Int64)
		}
	}
	return out, rows.Err()
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLite) ensureSubscriber(ctx context.Context, q execQuerier, chatID int64) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscribers (chat_id, created_at) VALUES (?, ?)`,
		chatID, now,
	)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

func (s *SQLite) load(ctx context.Context, q execQuerier, chatID int64) (model.Preferences, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT topic, enabled FROM topic_prefs WHERE chat_id = ?`, chatID,
	)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("query prefs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	p := model.DefaultPreferences(chatID)
	for rows.Next() {
		var (
			key     string
			enabled int64
		)
		if err := rows.Scan(&key, &enabled); err != nil {
			return model.Preferences{}, fmt.Errorf("scan prefs: %w", err)
		}
		applyFlag(&p, key, enabled)
	}
	return p, rows.Err()
}

// applyFlag ignores keys that are not part of the topic enumeration.
func applyFlag(p *model.Preferences, key string, enabled int64) {
	if t, ok := model.ParseTopic(key); ok {
		p.Enabled[t] = enabled == 1
	}
}
