package restock

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for restock files on the local filesystem.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based restock loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "restock-loader").Logger(),
	}
}

// Load reads a gzipped restock file from disk.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Batch, error) {
	l.logger.Info().Str("file", filePath).Msg("loading restock file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open restock file")
		return nil, fmt.Errorf("failed to open restock file %s: %w", filePath, err)
	}
	defer file.Close()

	batch, err := parse(ctx, filePath, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read restock file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("lines", len(batch.Lines)).
		Int("invalid", len(batch.Invalid)).
		Msg("restock file loaded")

	return batch, nil
}
