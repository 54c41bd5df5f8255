package sqldb

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"

	"github.com/watter46/footics-sub000/internal/domain/persistence"
	qb "github.com/watter46/footics-sub000/internal/platform/querybuilder"
)

// Dialect is the SQL flavour behind a DB. Its value doubles as the
// database/sql driver name.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func ParseDialect(raw string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(raw))) {
	case DialectSQLite:
		return DialectSQLite, nil
	case DialectPostgres, "postgresql":
		return DialectPostgres, nil
	default:
		return "", crerr.Newf("unsupported sql dialect %q", raw)
	}
}

func (d Dialect) format() qb.Format {
	if d == DialectSQLite {
		return qb.Question
	}
	return qb.Dollar
}

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB is a traced sqlx handle plus the dialect its queries are rendered for.
type DB struct {
	x       *sqlx.DB
	dialect Dialect
	now     func() time.Time
}

// Open connects through otelsqlx so every statement gets a span. SQLite is
// limited to one connection: the engine is a single writer and an in-memory
// database only lives as long as its connection.
func Open(ctx context.Context, dialect Dialect, dsn string, opts Options) (*DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, crerr.New("database dsn is required")
	}

	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
		opts.ConnMaxLifetime = 0
	}

	x, err := otelsqlx.Open(string(dialect), dsn,
		otelsql.WithDBSystem(string(dialect)),
		otelsql.WithDBName(dbNameFromDSN(dialect, dsn)),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrapf(err, "open %s database", dialect)
	}

	if opts.MaxOpenConns > 0 {
		x.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		x.SetMaxIdleConns(opts.MaxIdleConns)
	}
	x.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := x.PingContext(ctx); err != nil {
		_ = x.Close()
		return nil, crerr.Wrapf(err, "ping %s database", dialect)
	}

	return &DB{x: x, dialect: dialect, now: time.Now}, nil
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) Close() error {
	return db.x.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.x.PingContext(ctx)
}

// Repositories returns auto-commit repositories.
func (db *DB) Repositories() persistence.Repositories {
	return db.bind(db.x)
}

func (db *DB) bind(q sqlx.ExtContext) persistence.Repositories {
	return persistence.Repositories{
		Matches: &MatchRepository{q: q, db: db},
		Events:  &EventRepository{q: q, db: db},
		Players: &PlayerRepository{q: q, db: db},
	}
}

func (db *DB) timestamp() time.Time {
	return db.now().UTC()
}

var sqlitePragmas = []string{"foreign_keys(1)", "busy_timeout(5000)"}

func sqliteDSN(dsn string) string {
	name, rawQuery, _ := strings.Cut(dsn, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return dsn
	}

	have := map[string]bool{}
	for _, p := range query["_pragma"] {
		key, _, _ := strings.Cut(p, "(")
		have[strings.ToLower(strings.TrimSpace(key))] = true
	}
	for _, p := range sqlitePragmas {
		key, _, _ := strings.Cut(p, "(")
		if !have[key] {
			query.Add("_pragma", p)
		}
	}
	if query.Get("_time_format") == "" {
		query.Set("_time_format", "sqlite")
	}

	return name + "?" + query.Encode()
}

func dbNameFromDSN(dialect Dialect, dsn string) string {
	if dialect == DialectSQLite {
		name, _, _ := strings.Cut(dsn, "?")
		return strings.TrimPrefix(name, "file:")
	}

	parsed, err := url.Parse(dsn)
	if err == nil && parsed.Scheme != "" {
		if name := strings.TrimPrefix(parsed.Path, "/"); name != "" {
			return name
		}
	}
	for _, token := range strings.Fields(dsn) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

func formatQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
