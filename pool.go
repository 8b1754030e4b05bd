package oracleraw

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
)

// PoolConfig sizes the connection pool. Either Size (flat pool) or
// Min / Increment / Max (structured pool) is used; Max wins when set.
type PoolConfig struct {
	Size        int           `mapstructure:"size" validate:"gte=0"`
	Min         int           `mapstructure:"min" validate:"gte=0"`
	Increment   int           `mapstructure:"increment" validate:"gte=0"`
	Max         int           `mapstructure:"max" validate:"omitempty,gtefield=Min"`
	MaxLifetime time.Duration `mapstructure:"maxLifetime"`
	MaxIdleTime time.Duration `mapstructure:"maxIdleTime"`
	// seconds allowed for the warm-up ping
	ContextTimeout int `mapstructure:"contextTimeout" validate:"gte=0"`
}

// FlatPool is the single-number pool sizing
func FlatPool(size int) PoolConfig {
	return PoolConfig{Size: size}
}

// maxOpen is the hard cap on open connections, at least 1
func (p PoolConfig) maxOpen() int {
	switch {
	case p.Max > 0:
		return p.Max
	case p.Size > 0:
		return p.Size
	}
	return 1
}

// minIdle is the number of connections kept open between calls
func (p PoolConfig) minIdle() int {
	if p.Max > 0 || p.Min > 0 {
		if p.Min > p.maxOpen() {
			return p.maxOpen()
		}
		return p.Min
	}
	return p.maxOpen()
}

func (p PoolConfig) timeout() time.Duration {
	if p.ContextTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.ContextTimeout) * time.Second
}

// apply forwards the sizing to the driver pool. database/sql grows one
// connection at a time, so Increment is only reported.
func (p PoolConfig) apply(db *sql.DB, log *zerolog.Logger) {
	log.Info().
		Int("maxOpen", p.maxOpen()).
		Int("minIdle", p.minIdle()).
		Int("increment", p.Increment).
		Dur("maxLifetime", p.MaxLifetime).
		Dur("maxIdleTime", p.MaxIdleTime).
		Msg("pool configuration")

	db.SetMaxOpenConns(p.maxOpen())
	db.SetMaxIdleConns(p.minIdle())
	db.SetConnMaxLifetime(p.MaxLifetime)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
}

// warmUp opens minIdle connections up front and hands them back to the
// pool, so they sit idle for the first callers
func (p PoolConfig) warmUp(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	conns := make([]*sql.Conn, 0, p.minIdle())
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()

	for i := 0; i < p.minIdle(); i++ {
		c, err := db.Conn(ctx)
		if err != nil {
			return err
		}
		conns = append(conns, c)
		if err = c.PingContext(ctx); err != nil {
			return err
		}
	}
	return nil
}
