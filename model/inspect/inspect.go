// Package inspect derives models from a live database through atlas
// inspectors. The sqlite, postgres and mysql drivers are registered by
// importing this package.
package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/modelgql/model"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported dialects.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// Inspector reads models from a database schema.
type Inspector struct {
	dialect string
	insp    schema.Inspector
	log     *slog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger used to report inspected tables.
func WithLogger(l *slog.Logger) Option {
	return func(i *Inspector) { i.log = l }
}

// New returns an Inspector for an open database handle.
func New(dialect string, db *sql.DB, opts ...Option) (*Inspector, error) {
	var (
		insp schema.Inspector
		err  error
	)
	switch dialect {
	case SQLite, "sqlite3":
		insp, err = sqlite.Open(db)
	case Postgres:
		insp, err = postgres.Open(db)
	case MySQL:
		insp, err = mysql.Open(db)
	default:
		return nil, fmt.Errorf("inspect: unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("inspect: open %s driver: %w", dialect, err)
	}
	return NewFromInspector(dialect, insp, opts...), nil
}

// NewFromInspector wraps an existing atlas inspector.
func NewFromInspector(dialect string, insp schema.Inspector, opts ...Option) *Inspector {
	i := &Inspector{dialect: dialect, insp: insp, log: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Open opens a database connection and returns an Inspector for it.
// The caller owns the returned *sql.DB.
func Open(dialect, dsn string, opts ...Option) (*Inspector, *sql.DB, error) {
	driver := dialect
	if dialect == "sqlite3" {
		driver = SQLite
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("inspect: open database: %w", err)
	}
	i, err := New(dialect, db, opts...)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return i, db, nil
}

// Models inspects the named schema and returns one model per table, in the
// order atlas reports them. The empty name selects the connection's default
// schema.
func (i *Inspector) Models(ctx context.Context, name string, tables ...string) ([]*model.Model, error) {
	s, err := i.insp.InspectSchema(ctx, name, &schema.InspectOptions{Mode: schema.InspectTables, Tables: tables})
	if err != nil {
		return nil, fmt.Errorf("inspect: schema %q: %w", name, err)
	}
	models, err := model.FromSchema(s)
	if err != nil {
		return nil, fmt.Errorf("inspect: schema %q: %w", name, err)
	}
	i.log.Debug("inspected schema",
		slog.String("dialect", i.dialect),
		slog.String("schema", s.Name),
		slog.Int("tables", len(models)),
	)
	return models, nil
}
