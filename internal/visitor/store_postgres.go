package visitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "neighnet/pkg/domain"
	"neighnet/pkg/platform/sentinel"
)

// PostgresStore persists visitors in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const visitorColumns = `id, owner_resident_id, name, id_document_number, plate, vehicle_make, vehicle_model, vehicle_color, created_at`

func (s *PostgresStore) Save(ctx context.Context, v *Visitor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (`+visitorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(v.ID), uuid.UUID(v.OwnerResidentID), v.Name, v.IDDocumentNumber,
		v.Plate, v.VehicleMake, v.VehicleModel, v.VehicleColor, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save visitor: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, visitorID id.VisitorID) (*Visitor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+visitorColumns+` FROM visitors WHERE id = $1`,
		uuid.UUID(visitorID),
	)
	v, err := scanVisitor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find visitor: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+visitorColumns+` FROM visitors
		WHERE owner_resident_id = $1
		ORDER BY created_at ASC`,
		uuid.UUID(ownerID),
	)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var out []*Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, v *Visitor) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE visitors
		SET name = $2, id_document_number = $3, plate = $4,
		    vehicle_make = $5, vehicle_model = $6, vehicle_color = $7
		WHERE id = $1`,
		uuid.UUID(v.ID), v.Name, v.IDDocumentNumber, v.Plate,
		v.VehicleMake, v.VehicleModel, v.VehicleColor,
	)
	if err != nil {
		return fmt.Errorf("update visitor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update visitor: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, visitorID id.VisitorID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE id = $1`, uuid.UUID(visitorID))
	if err != nil {
		return fmt.Errorf("delete visitor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete visitor: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisitor(row rowScanner) (*Visitor, error) {
	var v Visitor
	var visitorID, ownerID uuid.UUID
	err := row.Scan(&visitorID, &ownerID, &v.Name, &v.IDDocumentNumber,
		&v.Plate, &v.VehicleMake, &v.VehicleModel, &v.VehicleColor, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	v.ID = id.VisitorID(visitorID)
	v.OwnerResidentID = id.UserID(ownerID)
	return &v, nil
}
