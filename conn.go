package oracleraw

import (
	"context"
	"database/sql"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	goOra "github.com/sijms/go-ora/v2"
)

const defaultPort = 1521

// DB is a pool of Oracle connections plus the default Query options.
// Defaults is a plain field: set it before sharing the DB between goroutines.
type DB struct {
	Name     string
	Defaults Options
	Prefetch int
	pool     *sql.DB
	log      *zerolog.Logger
	closed   atomic.Bool
}

// Conn is a pooled connection checked out by WithConnection
type Conn struct {
	*sql.Conn
	prefetch int
	log      *zerolog.Logger
}

// -----------------------------------------------------
// Public Methods
// -----------------------------------------------------

// OpenWithParams opens a pool using every parameter independently
// Parameters:
// @descriptor: TNS descriptor, host[:port]/service or oracle:// URL
// @schema: user name
// @password: password
// @pool: pool sizing, FlatPool(n) for a flat pool
// @defaults: options applied when Query is not given one
// @log: nil discards logging
func OpenWithParams(descriptor, schema, password string, pool PoolConfig, defaults Options, log *zerolog.Logger) (*DB, error) {
	return Open(&Config{
		Descriptor: descriptor,
		Schema:     schema,
		Password:   password,
		Pool:       pool,
		Defaults:   defaults,
	}, log)
}

// Open validates cfg, opens the pool and warms up its idle connections
func Open(cfg *Config, log *zerolog.Logger) (*DB, error) {
	log = orNop(log)
	if cfg == nil {
		return nil, EmptyDescriptorErr
	}
	if strings.TrimSpace(cfg.Descriptor) == "" {
		log.Error().Msg("connection descriptor without value")
		return nil, EmptyDescriptorErr
	}
	if strings.TrimSpace(cfg.Schema) == "" {
		return nil, EmptySchemaErr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = uuid.NewString()
	}
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = DefaultPrefetch
	}

	scoped := log.With().Str("pool", name).Logger()
	scoped.Info().Str("schema", cfg.Schema).Msg("opening connection pool")

	conStr, err := buildConnStr(cfg.Descriptor, cfg.Schema, cfg.Password, prefetch, cfg.Options)
	if err != nil {
		return nil, CantCreateConnErr(err)
	}

	pool, err := sql.Open("oracle", conStr)
	if err != nil {
		return nil, CantCreateConnErr(err)
	}
	cfg.Pool.apply(pool, &scoped)

	if err = cfg.Pool.warmUp(context.Background(), pool); err != nil {
		_ = pool.Close()
		scoped.Err(err).Msg("connection pool could not be opened")
		return nil, pkgerrors.Wrap(CantPingConnection(err), name)
	}

	scoped.Info().Msg("connection pool opened")
	return newDB(pool, name, prefetch, cfg.Defaults, &scoped), nil
}

func newDB(pool *sql.DB, name string, prefetch int, defaults Options, log *zerolog.Logger) *DB {
	return &DB{
		Name:     name,
		Defaults: defaults,
		Prefetch: prefetch,
		pool:     pool,
		log:      orNop(log),
	}
}

// WithConnection checks a connection out of the pool, hands it to fn and
// returns it to the pool afterwards, whatever fn does
func (db *DB) WithConnection(ctx context.Context, fn func(conn *Conn) error) error {
	if db.closed.Load() {
		return PoolClosedErr
	}

	conn, err := db.pool.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			db.log.Err(err).Msg("error releasing connection")
		}
	}()

	return fn(&Conn{Conn: conn, prefetch: db.Prefetch, log: db.log})
}

// Close disconnects every connection in the pool
func (db *DB) Close() error {
	if db.closed.Swap(true) {
		return nil
	}
	db.log.Info().Msg("closing connection pool")
	return db.pool.Close()
}

// Ping make a test against the pool
func (db *DB) Ping(ctx context.Context) error {
	if db.closed.Load() {
		return PoolClosedErr
	}
	if err := db.pool.PingContext(ctx); err != nil {
		return CantPingConnection(err)
	}
	return nil
}

// Stats reports the pool usage
func (db *DB) Stats() sql.DBStats {
	return db.pool.Stats()
}

// Parse creates a cursor for stmt on this connection
func (c *Conn) Parse(stmt string) *Cursor {
	return &Cursor{conn: c.Conn, stmt: stmt, prefetch: c.prefetch, log: c.log}
}

// Exec binds params and runs a statement that returns no rows
// Parameters:
// @stmt Statement to execute
// @params List of parameters to bind by name in @stmt
func (c *Conn) Exec(ctx context.Context, stmt string, params ...Param) (int64, error) {
	cursor := c.Parse(stmt)
	if err := cursor.BindParameters(params); err != nil {
		return 0, err
	}
	return cursor.Exec(ctx)
}

// -----------------------------------------------------
// Private
// -----------------------------------------------------

// buildConnStr turns the descriptor into a go-ora URL. PREFETCH_ROWS is
// always present unless options already carry it.
func buildConnStr(descriptor, schema, password string, prefetch int, options map[string]string) (string, error) {
	opts := make(map[string]string, len(options)+1)
	for k, v := range options {
		opts[strings.ToUpper(k)] = v
	}
	if _, ok := opts["PREFETCH_ROWS"]; !ok {
		opts["PREFETCH_ROWS"] = strconv.Itoa(prefetch)
	}

	descriptor = strings.TrimSpace(descriptor)
	switch {
	case strings.HasPrefix(strings.ToLower(descriptor), "oracle://"):
		u, err := url.Parse(descriptor)
		if err != nil {
			return "", err
		}
		q := u.Query()
		for k, v := range opts {
			if q.Get(k) == "" {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	case strings.HasPrefix(descriptor, "("):
		return goOra.BuildJDBC(schema, password, descriptor, opts), nil
	}

	host, port, service, err := parseEZConnect(descriptor)
	if err != nil {
		return "", err
	}
	return goOra.BuildUrl(host, port, service, schema, password, opts), nil
}

// parseEZConnect splits host[:port]/service
func parseEZConnect(descriptor string) (string, int, string, error) {
	address, service, _ := strings.Cut(strings.TrimPrefix(descriptor, "//"), "/")
	host, portStr, hasPort := strings.Cut(address, ":")
	if host == "" {
		return "", 0, "", pkgerrors.Errorf("no host in descriptor %q", descriptor)
	}

	port := defaultPort
	if hasPort {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return "", 0, "", pkgerrors.Wrapf(err, "invalid port in descriptor %q", descriptor)
		}
		port = p
	}
	return host, port, service, nil
}
