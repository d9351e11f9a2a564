// Package csv provides the default dataset source: two CSV files on disk.
package csv

import (
	"context"
	gocsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/leapstack-labs/crease/pkg/source"
)

// Name is the registered source type.
const Name = "csv"

// Source reads the match and delivery tables from CSV files.
type Source struct {
	cfg    core.SourceConfig
	params *Params
	logger *slog.Logger
}

// New creates a new CSV source instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Source {
	return &Source{
		logger: source.DiscardLogger(logger),
		params: &Params{},
	}
}

// Name returns the registered source type.
func (s *Source) Name() string {
	return Name
}

// Configure validates the file locations and decodes the CSV params.
func (s *Source) Configure(cfg core.SourceConfig) error {
	if cfg.Matches == "" || cfg.Deliveries == "" {
		return fmt.Errorf("csv source requires both matches and deliveries paths")
	}
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.params = params
	return nil
}

// Files returns the table name to file path mapping.
func (s *Source) Files() map[string]string {
	return map[string]string{
		core.TableMatches:    s.cfg.Matches,
		core.TableDeliveries: s.cfg.Deliveries,
	}
}

// LoadMatches reads the match table.
func (s *Source) LoadMatches(ctx context.Context) (core.Matches, error) {
	var matches core.Matches
	err := s.read(ctx, core.TableMatches, s.cfg.Matches, func(rr source.RowReader, origin source.Origin) error {
		var err error
		matches, err = source.DecodeMatches(rr, origin)
		return err
	})
	return matches, err
}

// LoadDeliveries reads the delivery table.
func (s *Source) LoadDeliveries(ctx context.Context) (core.Deliveries, error) {
	var deliveries core.Deliveries
	err := s.read(ctx, core.TableDeliveries, s.cfg.Deliveries, func(rr source.RowReader, origin source.Origin) error {
		var err error
		deliveries, err = source.DecodeDeliveries(rr, origin)
		return err
	})
	return deliveries, err
}

// Load reads both tables.
func (s *Source) Load(ctx context.Context) (*core.Dataset, error) {
	return source.LoadTables(ctx, s)
}

// Close is a no-op; files are closed after each read.
func (s *Source) Close() error {
	return nil
}

func (s *Source) read(ctx context.Context, table, path string, decode func(source.RowReader, source.Origin) error) error {
	origin := source.Origin{Source: Name, Path: path}

	s.logger.Debug("reading csv", slog.String("table", table), slog.String("path", path))

	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		reason := "cannot open file"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "file not found"
		}
		return &core.DataUnavailableError{Source: Name, Table: table, Path: path, Reason: reason, Err: err}
	}
	defer func() { _ = f.Close() }()

	return decode(s.newReader(ctx, f), origin)
}

func (s *Source) newReader(ctx context.Context, r io.Reader) *rowReader {
	cr := gocsv.NewReader(r)
	cr.LazyQuotes = s.params.LazyQuotes
	cr.TrimLeadingSpace = s.params.TrimLeadingSpace
	if d := s.params.delimiter(); d != 0 {
		cr.Comma = d
	}
	if c := s.params.comment(); c != 0 {
		cr.Comment = c
	}
	return &rowReader{ctx: ctx, r: cr}
}

// rowReader adapts encoding/csv to source.RowReader and honours cancellation.
type rowReader struct {
	ctx context.Context
	r   *gocsv.Reader
}

func (rr *rowReader) Columns() ([]string, error) {
	header, err := rr.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("file is empty")
	}
	return header, err
}

func (rr *rowReader) Next() ([]string, error) {
	if err := rr.ctx.Err(); err != nil {
		return nil, err
	}
	return rr.r.Read()
}

// Ensure Source implements core.FileSource interface
var _ core.FileSource = (*Source)(nil)
