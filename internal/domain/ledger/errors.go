package ledger

import "errors"

// Ledger domain errors
var (
	ErrShiftNotFound    = errors.New("shift policy not found")
	ErrInvalidShift     = errors.New("invalid shift policy")
	ErrEmptyInput       = errors.New("no punch text supplied")
	ErrUnsupportedFile  = errors.New("unsupported file type: only txt, log, csv, xlsx allowed")
	ErrShiftCatalogRead = errors.New("failed to read shift catalog")
)
