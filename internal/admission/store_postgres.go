package admission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "neighnet/pkg/domain"
	"neighnet/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code raised when the
// (pass_id, kind) index rejects a concurrent duplicate.
const uniqueViolation = "23505"

// PostgresStore persists visit rows in PostgreSQL. The uq_visits_pass_kind
// index is what serializes racing scans.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const visitColumns = `id, pass_id, visitor_id, guard_id, kind, ts, expires_at, id_photo_ref, plate_photo_ref`

func (s *PostgresStore) ListByPass(ctx context.Context, passID id.PassID) ([]*VisitRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+visitColumns+` FROM visits
		WHERE pass_id = $1
		ORDER BY ts ASC`,
		uuid.UUID(passID),
	)
	if err != nil {
		return nil, fmt.Errorf("list visits by pass: %w", err)
	}
	defer rows.Close()
	return collectVisits(rows)
}

func (s *PostgresStore) Append(ctx context.Context, record *VisitRecord) error {
	var guardID any
	if record.GuardID != nil {
		guardID = uuid.UUID(*record.GuardID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visits (`+visitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(record.ID), uuid.UUID(record.PassID), uuid.UUID(record.VisitorID),
		guardID, string(record.Kind), record.Timestamp, record.ExpiresAt,
		record.IDPhotoRef, record.PlatePhotoRef,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("append visit: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, visitID id.VisitID) (*VisitRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+visitColumns+` FROM visits WHERE id = $1`,
		uuid.UUID(visitID),
	)
	record, err := scanVisit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find visit: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) UpdateEvidence(ctx context.Context, visitID id.VisitID, idPhotoRef, platePhotoRef *string) (*VisitRecord, error) {
	// COALESCE keeps the stored value for any reference not supplied, so
	// two concurrent attaches of different photos cannot clobber each other.
	row := s.db.QueryRowContext(ctx, `
		UPDATE visits
		SET id_photo_ref = COALESCE($2, id_photo_ref),
		    plate_photo_ref = COALESCE($3, plate_photo_ref)
		WHERE id = $1
		RETURNING `+visitColumns,
		uuid.UUID(visitID), idPhotoRef, platePhotoRef,
	)
	record, err := scanVisit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update visit evidence: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListRange(ctx context.Context, from, to, cursor *time.Time, limit int) ([]*VisitRecord, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if from != nil {
		query += ` AND ts >= ` + arg(*from)
	}
	if to != nil {
		query += ` AND ts <= ` + arg(*to)
	}
	if cursor != nil {
		query += ` AND ts < ` + arg(*cursor)
	}
	query += ` ORDER BY ts DESC`
	if limit > 0 {
		query += ` LIMIT ` + arg(limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()
	return collectVisits(rows)
}

func collectVisits(rows *sql.Rows) ([]*VisitRecord, error) {
	var out []*VisitRecord
	for rows.Next() {
		record, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisit(row rowScanner) (*VisitRecord, error) {
	var r VisitRecord
	var visitID, passID, visitorID uuid.UUID
	var guardID uuid.NullUUID
	var kind string
	var expiresAt sql.NullTime
	var idRef, plateRef sql.NullString

	err := row.Scan(&visitID, &passID, &visitorID, &guardID, &kind,
		&r.Timestamp, &expiresAt, &idRef, &plateRef)
	if err != nil {
		return nil, err
	}

	r.ID = id.VisitID(visitID)
	r.PassID = id.PassID(passID)
	r.VisitorID = id.VisitorID(visitorID)
	r.Kind = Kind(kind)
	if guardID.Valid {
		g := id.UserID(guardID.UUID)
		r.GuardID = &g
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		r.ExpiresAt = &t
	}
	if idRef.Valid {
		r.IDPhotoRef = &idRef.String
	}
	if plateRef.Valid {
		r.PlatePhotoRef = &plateRef.String
	}
	return &r, nil
}
