package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one tracking session record.
type Session struct {
	ID             string
	StartedAt      time.Time
	StoppedAt      *time.Time
	Width          int
	Height         int
	FramesSampled  int64
	FramesDetected int64
	StopReason     string
}

// Active reports whether the session has not been finished yet.
func (s *Session) Active() bool {
	return s.StoppedAt == nil
}

// SessionRepository provides CRUD operations for session records.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session row at tracking start.
func (r *SessionRepository) Create(sess *Session) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, width, height)
		 VALUES (?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Width, sess.Height,
	)
	return err
}

// Finish closes out a session row with its final counters.
func (r *SessionRepository) Finish(id string, stoppedAt time.Time, sampled, detected int64, reason string) error {
	res, err := r.db.Exec(
		`UPDATE sessions
		 SET stopped_at = ?, frames_sampled = ?, frames_detected = ?, stop_reason = ?
		 WHERE id = ?`,
		stoppedAt, sampled, detected, reason, id,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var stoppedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, stopped_at, width, height, frames_sampled, frames_detected, stop_reason
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &stoppedAt, &sess.Width, &sess.Height,
		&sess.FramesSampled, &sess.FramesDetected, &sess.StopReason)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if stoppedAt.Valid {
		sess.StoppedAt = &stoppedAt.Time
	}
	return sess, nil
}

// List returns all sessions, most recent first.
func (r *SessionRepository) List() ([]Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, stopped_at, width, height, frames_sampled, frames_detected, stop_reason
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var stoppedAt sql.NullTime

		if err := rows.Scan(&sess.ID, &sess.StartedAt, &stoppedAt, &sess.Width, &sess.Height,
			&sess.FramesSampled, &sess.FramesDetected, &sess.StopReason); err != nil {
			return nil, err
		}
		if stoppedAt.Valid {
			sess.StoppedAt = &stoppedAt.Time
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// Delete removes a session record.
func (r *SessionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
