package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/apperr"
)

// GormStore keeps patients in SQLite through gorm. It backs local
// development and tests.
type GormStore struct {
	db *gorm.DB
}

var _ Repository = (*GormStore)(nil)

// NewGormStore opens (creating if needed) the SQLite database at path.
// ":memory:" gives a private in-memory database.
func NewGormStore(path string, log *slog.Logger) (*GormStore, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         NewGormLogger(log, 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serialises writers
	sqlDB.SetMaxOpenConns(1)

	return &GormStore{db: gdb}, nil
}

// Close releases the underlying connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSchema creates or migrates the patient table.
func (s *GormStore) EnsureSchema(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Patient{})
}

// ListPatients returns every patient record ordered by id.
func (s *GormStore) ListPatients(ctx context.Context) ([]Patient, error) {
	patients := make([]Patient, 0)
	if err := s.db.WithContext(ctx).Order("paciente_id").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// InsertPatients adds records in one transaction. An id that is already
// stored fails the whole batch with ErrPatientExists.
func (s *GormStore) InsertPatients(ctx context.Context, patients []Patient) error {
	if len(patients) == 0 {
		return nil
	}
	if err := validateAll(patients); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range patients {
			var count int64
			if err := tx.Model(&Patient{}).Where("paciente_id = ?", p.PacienteID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("patient %d: %w", p.PacienteID, ErrPatientExists)
			}
			if err := tx.Create(&p).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("patient %d: %w", p.PacienteID, ErrPatientExists)
				}
				return err
			}
		}
		return nil
	})
}

// DeletePatient removes one record. A missing id is a NotFound error.
func (s *GormStore) DeletePatient(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Where("paciente_id = ?", id).Delete(&Patient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("patient %d not found", id), nil)
	}
	return nil
}
