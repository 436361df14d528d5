package db

import (
	"context"
	"errors"
	"fmt"
)

// PatientsTable holds the cardiac-risk records.
const PatientsTable = "risco_cardiaco_paciente"

// ErrPatientExists is returned when inserting a paciente_id already stored.
var ErrPatientExists = errors.New("patient already exists")

// Patient represents one cardiac-risk record.
type Patient struct {
	PacienteID int `json:"paciente_id" gorm:"column:paciente_id;primaryKey;autoIncrement:false"`
	Idade      int `json:"idade" gorm:"column:idade;not null"`
	Colesterol int `json:"colesterol" gorm:"column:colesterol;not null"`
	Pressao    int `json:"pressao" gorm:"column:pressao;not null"`
	Risco      int `json:"risco" gorm:"column:risco;not null"`
}

// TableName implements gorm's tabler.
func (Patient) TableName() string {
	return PatientsTable
}

// Validate checks a record before administrative insertion.
func (p Patient) Validate() error {
	if p.Risco != 0 && p.Risco != 1 {
		return fmt.Errorf("patient %d: risco must be 0 or 1, got %d", p.PacienteID, p.Risco)
	}
	if p.Idade < 0 {
		return fmt.Errorf("patient %d: idade must not be negative", p.PacienteID)
	}
	return nil
}

// Repository is the patient store used by the API and the admin CLI.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	ListPatients(ctx context.Context) ([]Patient, error)
	InsertPatients(ctx context.Context, patients []Patient) error
	DeletePatient(ctx context.Context, id int) error
	Close() error
}

func validateAll(patients []Patient) error {
	seen := make(map[int]struct{}, len(patients))
	for _, p := range patients {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.PacienteID]; dup {
			return fmt.Errorf("patient %d: %w", p.PacienteID, ErrPatientExists)
		}
		seen[p.PacienteID] = struct{}{}
	}
	return nil
}
