package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/apperr"
)

// Store wraps PostgreSQL access helpers.
type Store struct {
	pool *pgxpool.Pool
}

var _ Repository = (*Store)(nil)

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

const createPatientsSQL = `
    CREATE TABLE IF NOT EXISTS ` + PatientsTable + ` (
        paciente_id integer PRIMARY KEY,
        idade       integer NOT NULL,
        colesterol  integer NOT NULL,
        pressao     integer NOT NULL,
        risco       integer NOT NULL CHECK (risco IN (0, 1))
    )
`

// EnsureSchema creates the patient table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createPatientsSQL)
	return err
}

const listPatientsSQL = `
    SELECT paciente_id, idade, colesterol, pressao, risco
    FROM ` + PatientsTable + `
    ORDER BY paciente_id
`

// ListPatients returns every patient record ordered by id.
func (s *Store) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := s.pool.Query(ctx, listPatientsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := make([]Patient, 0)
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.PacienteID,
			&p.Idade,
			&p.Colesterol,
			&p.Pressao,
			&p.Risco,
		); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

const insertPatientSQL = `INSERT INTO ` + PatientsTable + ` (paciente_id, idade, colesterol, pressao, risco)
VALUES ($1,$2,$3,$4,$5)`

// InsertPatients adds records in one transaction. An id that is already
// stored fails the whole batch with ErrPatientExists.
func (s *Store) InsertPatients(ctx context.Context, patients []Patient) error {
	if len(patients) == 0 {
		return nil
	}
	if err := validateAll(patients); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, p := range patients {
		batch.Queue(insertPatientSQL, p.PacienteID, p.Idade, p.Colesterol, p.Pressao, p.Risco)
	}

	res := tx.SendBatch(ctx, batch)
	for _, p := range patients {
		if _, err := res.Exec(); err != nil {
			_ = res.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("patient %d: %w", p.PacienteID, ErrPatientExists)
			}
			return err
		}
	}
	if err := res.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const deletePatientSQL = `DELETE FROM ` + PatientsTable + ` WHERE paciente_id = $1`

// DeletePatient removes one record. A missing id is a NotFound error.
func (s *Store) DeletePatient(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, deletePatientSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("patient %d not found", id), nil)
	}
	return nil
}
