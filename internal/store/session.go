package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Stats counts the canvas activity of one capture session.
type Stats struct {
	Strokes int `json:"strokes"`
	Undos   int `json:"undos"`
	Redos   int `json:"redos"`
	Clears  int `json:"clears"`
}

// CaptureSession is one camera start/stop cycle.
type CaptureSession struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Stats
}

// Active reports whether the session has not been finished.
func (c *CaptureSession) Active() bool {
	return c.EndedAt == nil
}

// SessionRepository records capture sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the capture session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new open session for a canvas of the given size.
func (r *SessionRepository) Create(width, height int) (*CaptureSession, error) {
	c := &CaptureSession{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Width:     width,
		Height:    height,
	}

	_, err := r.db.Exec(
		`INSERT INTO capture_sessions (id, started_at, width, height)
		 VALUES (?, ?, ?, ?)`,
		c.ID, c.StartedAt, c.Width, c.Height,
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Finish closes the session and records its final counters.
func (r *SessionRepository) Finish(id string, stats Stats) error {
	result, err := r.db.Exec(
		`UPDATE capture_sessions
		 SET ended_at = ?, strokes = ?, undos = ?, redos = ?, clears = ?
		 WHERE id = ? AND ended_at IS NULL`,
		time.Now(), stats.Strokes, stats.Undos, stats.Redos, stats.Clears, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*CaptureSession, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, ended_at, width, height, strokes, undos, redos, clears
		 FROM capture_sessions WHERE id = ?`,
		id,
	)

	c, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns up to limit sessions, newest first. A limit below 1 returns all.
func (r *SessionRepository) List(limit int) ([]*CaptureSession, error) {
	if limit < 1 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, width, height, strokes, undos, redos, clears
		 FROM capture_sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*CaptureSession
	for rows.Next() {
		c, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (*CaptureSession, error) {
	c := &CaptureSession{}
	var ended sql.NullTime

	err := s.Scan(&c.ID, &c.StartedAt, &ended, &c.Width, &c.Height,
		&c.Strokes, &c.Undos, &c.Redos, &c.Clears)
	if err != nil {
		return nil, err
	}

	if ended.Valid {
		t := ended.Time
		c.EndedAt = &t
	}
	return c, nil
}
