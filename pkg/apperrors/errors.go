package apperrors

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidDataset          = errors.New("invalid dataset")
	ErrLocationNotResolved     = errors.New("location not resolved")
	ErrNoMatchingRecords       = errors.New("no matching records")
	ErrCollaboratorUnavailable = errors.New("external collaborator unavailable")
)
