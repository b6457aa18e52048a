// Package discount loads bulk discount-code files and imports them into the
// store. Code files are gzipped, one code per line, and may live on the local
// file system or in S3.
package discount

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Loader defines the interface for reading a gzipped code file.
type Loader interface {
	// Load reads a gzipped code file and returns its codes, one per line,
	// blank lines skipped.
	Load(ctx context.Context, path string) ([]string, error)
}

// fileLoader implements Loader for the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based code loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "discount-loader").Logger(),
	}
}

// Load reads a gzipped code file from the local file system.
func (l *fileLoader) Load(ctx context.Context, path string) ([]string, error) {
	l.logger.Info().Str("file", path).Msg("loading discount code file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open code file")
		return nil, fmt.Errorf("failed to open code file %s: %w", path, err)
	}
	defer file.Close()

	codes, err := readCodes(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read code file")
		return nil, fmt.Errorf("failed to read code file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("codes_loaded", len(codes)).
		Msg("discount code file loaded")
	return codes, nil
}

// readCodes decompresses r and collects one code per non-empty line.
func readCodes(ctx context.Context, r io.Reader) ([]string, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var codes []string
	for scanner.Scan() {
		// Check context cancellation periodically on large files.
		if len(codes)%100_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			codes = append(codes, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading codes: %w", err)
	}
	return codes, nil
}
