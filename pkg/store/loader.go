package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
)

// LoadFile reads a year-indexed dataset document from path.
func LoadFile(path string, logger *zap.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	s, err := Load(f, logger)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return s, nil
}

// Load decodes {"<year>": [ {record}, ... ], ...}. Year keys keep their document
// order, which a plain map decode would lose. Entries that are not objects are
// skipped and logged.
func Load(r io.Reader, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("store")

	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidDataset, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level must be an object keyed by year", apperrors.ErrInvalidDataset)
	}

	var records []*models.Record
	skipped := 0
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidDataset, err)
		}
		year, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %v", apperrors.ErrInvalidDataset, keyTok)
		}

		var entries []json.RawMessage
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("%w: year %q: %v", apperrors.ErrInvalidDataset, year, err)
		}

		for _, raw := range entries {
			rec, err := models.ParseRecord(year, raw)
			if err != nil {
				skipped++
				continue
			}
			records = append(records, rec)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidDataset, err)
	}

	s := New(records)
	logger.Info("Dataset loaded",
		zap.Int("records", s.Len()),
		zap.Int("states", len(s.States())),
		zap.Int("years", len(s.Years())),
		zap.Int("skipped", skipped))

	return s, nil
}
