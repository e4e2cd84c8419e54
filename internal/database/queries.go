package database

import (
	"database/sql"
)

// DBorTx is an interface that allows query functions to accept either a
// `*sql.DB` for one-shot reads or a `*sql.Tx` for operations that must be
// part of a larger transaction. This promotes code reuse.
type DBorTx interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// --- Event log queries ---

// InsertEvent appends one event record. A record with the same
// (round_id, timestamp) key is replaced wholesale; last write wins.
// This is a deliberate idempotence mechanism for retried appends, not a
// general update facility; events are otherwise immutable.
func (s *Service) InsertEvent(db DBorTx, rec EventRecord) error {
	query := `INSERT OR REPLACE INTO round_events (round_id, timestamp, event_type, event_data, player_id)
			  VALUES (?, ?, ?, ?, ?);`
	_, err := db.Exec(query, rec.RoundID, rec.Timestamp, rec.EventType, rec.EventData, rec.PlayerID)
	if err != nil {
		return &StorageError{Op: "insert event", Err: err}
	}
	return nil
}

// InsertEvents appends a batch of records with the same replace-on-conflict
// semantics. Callers pass a *sql.Tx obtained from Service.Write so the batch
// lands atomically: all records or none.
func (s *Service) InsertEvents(tx *sql.Tx, recs []EventRecord) error {
	for _, rec := range recs {
		if err := s.InsertEvent(tx, rec); err != nil {
			return err
		}
	}
	return nil
}

// EventsForRound returns every record for a round, ascending by timestamp.
func (s *Service) EventsForRound(db DBorTx, roundID int64) ([]EventRecord, error) {
	query := `SELECT round_id, timestamp, event_type, event_data, player_id
			  FROM round_events
			  WHERE round_id = ?
			  ORDER BY timestamp ASC;`
	return s.queryEvents(db, "events for round", query, roundID)
}

// EventsByType returns a round's records filtered to one event type,
// ascending by timestamp.
func (s *Service) EventsByType(db DBorTx, roundID int64, eventType string) ([]EventRecord, error) {
	query := `SELECT round_id, timestamp, event_type, event_data, player_id
			  FROM round_events
			  WHERE round_id = ? AND event_type = ?
			  ORDER BY timestamp ASC;`
	return s.queryEvents(db, "events by type", query, roundID, eventType)
}

// EventsByTimeRange returns a round's records with start <= timestamp <= end,
// ascending by timestamp. Both bounds are inclusive.
func (s *Service) EventsByTimeRange(db DBorTx, roundID, start, end int64) ([]EventRecord, error) {
	query := `SELECT round_id, timestamp, event_type, event_data, player_id
			  FROM round_events
			  WHERE round_id = ? AND timestamp BETWEEN ? AND ?
			  ORDER BY timestamp ASC;`
	return s.queryEvents(db, "events by time range", query, roundID, start, end)
}

// DeleteEventsForRound removes all records for the round. Irreversible.
func (s *Service) DeleteEventsForRound(db DBorTx, roundID int64) error {
	_, err := db.Exec(`DELETE FROM round_events WHERE round_id = ?;`, roundID)
	if err != nil {
		return &StorageError{Op: "delete events for round", Err: err}
	}
	return nil
}

// EventCountForRound returns the number of records stored for a round.
func (s *Service) EventCountForRound(db DBorTx, roundID int64) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM round_events WHERE round_id = ?;`, roundID).Scan(&count)
	if err != nil {
		return 0, &StorageError{Op: "count events for round", Err: err}
	}
	return count, nil
}

// RoundIDsWithEvents returns the distinct round ids that have at least one
// record, newest (highest id) first.
func (s *Service) RoundIDsWithEvents(db DBorTx) ([]int64, error) {
	rows, err := db.Query(`SELECT DISTINCT round_id FROM round_events ORDER BY round_id DESC;`)
	if err != nil {
		return nil, &StorageError{Op: "round ids with events", Err: err}
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, &StorageError{Op: "round ids with events", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "round ids with events", Err: err}
	}
	return ids, nil
}

func (s *Service) queryEvents(db DBorTx, op, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	var recs []EventRecord
	for rows.Next() {
		var rec EventRecord
		if err := rows.Scan(&rec.RoundID, &rec.Timestamp, &rec.EventType, &rec.EventData, &rec.PlayerID); err != nil {
			return nil, &StorageError{Op: op, Err: err}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	return recs, nil
}

// --- Scorecard queries ---

// SaveScoreCard inserts or replaces the scorecard row for a round.
// The scorecard is a mutable aggregate keyed by round id, so unlike the
// event log a replace here is the normal write path, not a retry mechanism.
func (s *Service) SaveScoreCard(db DBorTx, rec ScoreCardRecord) error {
	query := `INSERT OR REPLACE INTO score_cards
			  (round_id, player_id, course_id, course_name, course_par_json, hole_stats_json, round_in_progress, created_timestamp, last_updated_timestamp)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := db.Exec(query,
		rec.RoundID, rec.PlayerID, rec.CourseID, rec.CourseName,
		rec.CourseParJSON, rec.HoleStatsJSON, rec.RoundInProgress,
		rec.CreatedTimestamp, rec.LastUpdatedTimestamp,
	)
	if err != nil {
		return &StorageError{Op: "save scorecard", Err: err}
	}
	return nil
}

// GetScoreCard fetches the scorecard row for a round.
// Returns sql.ErrNoRows (wrapped) when the round has no scorecard.
func (s *Service) GetScoreCard(db DBorTx, roundID int64) (*ScoreCardRecord, error) {
	query := `SELECT round_id, player_id, course_id, course_name, course_par_json, hole_stats_json, round_in_progress, created_timestamp, last_updated_timestamp
			  FROM score_cards WHERE round_id = ?;`
	rec := &ScoreCardRecord{}
	err := db.QueryRow(query, roundID).Scan(
		&rec.RoundID, &rec.PlayerID, &rec.CourseID, &rec.CourseName,
		&rec.CourseParJSON, &rec.HoleStatsJSON, &rec.RoundInProgress,
		&rec.CreatedTimestamp, &rec.LastUpdatedTimestamp,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, &StorageError{Op: "get scorecard", Err: err}
	}
	return rec, nil
}

// AllScoreCards returns every saved scorecard, newest first.
func (s *Service) AllScoreCards(db DBorTx) ([]ScoreCardRecord, error) {
	query := `SELECT round_id, player_id, course_id, course_name, course_par_json, hole_stats_json, round_in_progress, created_timestamp, last_updated_timestamp
			  FROM score_cards ORDER BY created_timestamp DESC;`
	rows, err := db.Query(query)
	if err != nil {
		return nil, &StorageError{Op: "all scorecards", Err: err}
	}
	defer rows.Close()

	var recs []ScoreCardRecord
	for rows.Next() {
		var rec ScoreCardRecord
		if err := rows.Scan(
			&rec.RoundID, &rec.PlayerID, &rec.CourseID, &rec.CourseName,
			&rec.CourseParJSON, &rec.HoleStatsJSON, &rec.RoundInProgress,
			&rec.CreatedTimestamp, &rec.LastUpdatedTimestamp,
		); err != nil {
			return nil, &StorageError{Op: "all scorecards", Err: err}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "all scorecards", Err: err}
	}
	return recs, nil
}

// DeleteScoreCard removes the scorecard row for a round.
func (s *Service) DeleteScoreCard(db DBorTx, roundID int64) error {
	_, err := db.Exec(`DELETE FROM score_cards WHERE round_id = ?;`, roundID)
	if err != nil {
		return &StorageError{Op: "delete scorecard", Err: err}
	}
	return nil
}

// --- Player queries ---

func (s *Service) CreatePlayer(db DBorTx, name, passwordHash string) (*Player, error) {
	res, err := db.Exec(`INSERT INTO players (name, password_hash) VALUES (?, ?);`, name, passwordHash)
	if err != nil {
		return nil, &StorageError{Op: "create player", Err: err}
	}
	id, _ := res.LastInsertId()
	return s.GetPlayerByID(db, id)
}

func (s *Service) GetPlayerByID(db DBorTx, id int64) (*Player, error) {
	player := &Player{}
	err := db.QueryRow(`SELECT id, name, password_hash, created_at FROM players WHERE id = ?;`, id).Scan(
		&player.ID, &player.Name, &player.PasswordHash, &player.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, &StorageError{Op: "get player by id", Err: err}
	}
	return player, nil
}

func (s *Service) GetPlayerByName(db DBorTx, name string) (*Player, error) {
	player := &Player{}
	err := db.QueryRow(`SELECT id, name, password_hash, created_at FROM players WHERE name = ?;`, name).Scan(
		&player.ID, &player.Name, &player.PasswordHash, &player.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, &StorageError{Op: "get player by name", Err: err}
	}
	return player, nil
}
