package modelcard

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cardops/modelcard/domain/model"
	"github.com/cardops/modelcard/fieldmap"
	"github.com/cardops/modelcard/storage"
)

// DefaultTable is the destination table of saved model cards.
const DefaultTable = "ModelCards"

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// Table is the destination table identifier.
	Table string
	// Mapping translates application fields into columns.
	Mapping *model.MappingTable
	// Logger receives save and import events.
	Logger *zap.Logger
}

// NewServiceOptions returns options for the default table and mapping.
func NewServiceOptions() ServiceOptions {
	return ServiceOptions{
		Table:   DefaultTable,
		Mapping: fieldmap.Default(),
		Logger:  zap.NewNop(),
	}
}

// WithTable sets the destination table
func (o ServiceOptions) WithTable(table string) ServiceOptions {
	o.Table = table
	return o
}

// WithMapping sets the mapping table
func (o ServiceOptions) WithMapping(mapping *model.MappingTable) ServiceOptions {
	o.Mapping = mapping
	return o
}

// WithLogger sets the logger
func (o ServiceOptions) WithLogger(logger *zap.Logger) ServiceOptions {
	o.Logger = logger
	return o
}

// SaveState is a step of the save transaction.
type SaveState int

const (
	// SaveIdle is before a connection is acquired
	SaveIdle SaveState = iota
	// SaveConnected means a transaction is open
	SaveConnected
	// SaveMapped means the record has been translated into columns
	SaveMapped
	// SaveExecuted means the insert ran but is not committed
	SaveExecuted
	// SaveCommitted means the row is durable
	SaveCommitted
)

// String returns the string representation of SaveState
func (s SaveState) String() string {
	switch s {
	case SaveIdle:
		return "idle"
	case SaveConnected:
		return "connected"
	case SaveMapped:
		return "mapped"
	case SaveExecuted:
		return "executed"
	case SaveCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// Service runs the import and save paths.
type Service struct {
	connector storage.Connector
	mapping   *model.MappingTable
	builder   *InsertBuilder
	logger    *zap.Logger
}

// NewService creates a Service. connector may be nil for import-only use.
func NewService(connector storage.Connector, opts ServiceOptions) (*Service, error) {
	if opts.Mapping == nil {
		opts.Mapping = fieldmap.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Table == "" {
		opts.Table = DefaultTable
	}

	s := &Service{
		connector: connector,
		mapping:   opts.Mapping,
		logger:    opts.Logger,
	}
	if connector != nil {
		builder, err := NewInsertBuilder(opts.Table, connector.Dialect())
		if err != nil {
			return nil, err
		}
		s.builder = builder
	}
	return s, nil
}

// Mapping returns the mapping table in use.
func (s *Service) Mapping() *model.MappingTable {
	return s.mapping
}

// Import parses the file at path and returns its filtered records.
func (s *Service) Import(path string) ([]*model.Record, error) {
	start := time.Now()
	name := filepath.Base(path)

	records, err := ParseRecords(path)
	if err != nil {
		s.logger.Warn("import failed", zap.String("file", name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("import finished",
		zap.String("file", name),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

// Save maps rec onto the destination table and inserts it in one transaction.
//
// It returns nil only after the insert and the commit both succeeded. On any
// failure after the connection was acquired the transaction is rolled back,
// and the connection is always released.
func (s *Service) Save(ctx context.Context, rec *model.Record) (err error) {
	if s.connector == nil {
		return fmt.Errorf("%w: service has no storage connector", ErrInternal)
	}

	state := SaveIdle
	conn, err := s.connector.Connect(ctx)
	if err != nil {
		s.logger.Error("storage connection failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	state = SaveConnected

	defer func() {
		if err != nil {
			s.logger.Warn("save failed", zap.Stringer("state", state), zap.Error(err))
			if rbErr := conn.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", zap.Error(rbErr))
			}
		}
		if closeErr := conn.Close(); closeErr != nil {
			s.logger.Warn("connection close failed", zap.Error(closeErr))
		}
	}()

	mapped, err := ApplyMapping(rec, s.mapping)
	if err != nil {
		return err
	}
	state = SaveMapped

	query, args, err := s.builder.Build(mapped)
	if err != nil {
		return err
	}
	if err = conn.Exec(ctx, query, args...); err != nil {
		return &StorageError{Op: "exec", Code: storage.NativeCode(err), Err: err}
	}
	state = SaveExecuted

	if err = conn.Commit(); err != nil {
		return &StorageError{Op: "commit", Code: storage.NativeCode(err), Err: err}
	}
	state = SaveCommitted

	s.logger.Info("model card saved", zap.Int("columns", mapped.Len()), zap.Stringer("state", state))
	return nil
}

// SaveJSON decodes a flat JSON object and saves it.
func (s *Service) SaveJSON(ctx context.Context, data []byte) error {
	rec, err := DecodeRecord(data)
	if err != nil {
		return err
	}
	return s.Save(ctx, rec)
}

// DecodeRecord decodes a flat JSON object into a record.
// "" and null become empty values, which are stored as NULL.
func DecodeRecord(data []byte) (*model.Record, error) {
	var rec model.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return &rec, nil
}
