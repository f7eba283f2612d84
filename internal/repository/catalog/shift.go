package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"gopkg.in/yaml.v3"
)

// DefaultShifts is the built-in shift table.
var DefaultShifts = []ledger.ShiftPolicy{
	{ID: ledger.Shift1, Name: "Ca 1 (08:00 - 18:00)", StartTime: "08:00", EndTime: "18:00", GraceMinutes: 10},
	{ID: ledger.Shift2, Name: "Ca 2 (08:30 - 18:30)", StartTime: "08:30", EndTime: "18:30", GraceMinutes: 10},
	{ID: ledger.Shift3, Name: "Ca 3 (09:00 - 19:00)", StartTime: "09:00", EndTime: "19:00", GraceMinutes: 10},
}

type shiftFile struct {
	Shifts []ledger.ShiftPolicy `yaml:"shifts"`
}

type shiftRepositoryImpl struct {
	shifts []ledger.ShiftPolicy
}

// NewDefaultShiftRepository serves DefaultShifts.
func NewDefaultShiftRepository() ledger.ShiftRepository {
	shifts := make([]ledger.ShiftPolicy, len(DefaultShifts))
	copy(shifts, DefaultShifts)
	return &shiftRepositoryImpl{shifts: shifts}
}

// NewYAMLShiftRepository loads a shift table from a YAML file of the form
//
//	shifts:
//	  - id: SHIFT_1
//	    name: Ca 1
//	    start_time: "08:00"
//	    end_time: "18:00"
//	    grace_minutes: 10
func NewYAMLShiftRepository(path string) (ledger.ShiftRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrShiftCatalogRead, err)
	}
	shifts, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return &shiftRepositoryImpl{shifts: shifts}, nil
}

// ParseYAML decodes and validates a shift table.
func ParseYAML(data []byte) ([]ledger.ShiftPolicy, error) {
	var file shiftFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrShiftCatalogRead, err)
	}
	if len(file.Shifts) == 0 {
		return nil, fmt.Errorf("%w: no shifts defined", ledger.ErrShiftCatalogRead)
	}

	seen := make(map[ledger.ShiftType]bool)
	for i, s := range file.Shifts {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: shift #%d has no id", ledger.ErrShiftCatalogRead, i+1)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: duplicate shift id %s", ledger.ErrShiftCatalogRead, s.ID)
		}
		seen[s.ID] = true
		if _, err := s.Clock(); err != nil {
			return nil, fmt.Errorf("shift %s: %w", s.ID, err)
		}
		if s.Name == "" {
			file.Shifts[i].Name = string(s.ID)
		}
	}
	return file.Shifts, nil
}

// GetByID implements ledger.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id ledger.ShiftType) (ledger.ShiftPolicy, error) {
	for _, s := range r.shifts {
		if strings.EqualFold(string(s.ID), string(id)) {
			return s, nil
		}
	}
	return ledger.ShiftPolicy{}, fmt.Errorf("shift %s: %w", id, ledger.ErrShiftNotFound)
}

// List implements ledger.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]ledger.ShiftPolicy, error) {
	shifts := make([]ledger.ShiftPolicy, len(r.shifts))
	copy(shifts, r.shifts)
	return shifts, nil
}
