package oracleraw

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Query parses stmt, binds params, executes it and shapes the fetched rows
// according to opts merged over db.Defaults.
//
// With Metadata plain the fetched data is returned as is: a []Row or
// []Record for all rows, a Row or Record for the first row, or a single
// value. Otherwise the data comes wrapped in an *Envelope.
//
// Errors are returned unchanged; the connection goes back to the pool in
// every case.
func (db *DB) Query(ctx context.Context, stmt string, params []Param, opts *Options) (any, error) {
	o := db.Defaults.Merge(opts).resolved()
	log := db.log.With().Str("query_id", uuid.NewString()).Logger()
	log.Debug().
		Str("stmt", stmt).
		Int("params", len(params)).
		Str("itemFormat", string(o.ItemFormat)).
		Str("amount", string(o.Amount)).
		Str("metadata", string(o.Metadata)).
		Msg("query")

	var result any
	err := db.WithConnection(ctx, func(conn *Conn) (err error) {
		start := time.Now()

		cursor := conn.Parse(stmt)
		defer func() {
			if cerr := cursor.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		if err = cursor.BindParameters(params); err != nil {
			return err
		}
		if err = cursor.ExecWithPrefetch(ctx, conn.prefetch); err != nil {
			return err
		}

		data, err := fetch(cursor, o)
		if err != nil {
			return err
		}

		result = wrap(cursor, o.Metadata, data, start)
		return nil
	})
	if err != nil {
		log.Err(err).Str("stmt", stmt).Msg("query failed")
		return nil, err
	}
	return result, nil
}

// fetch picks the fetch strategy for the resolved item format and amount
func fetch(cursor *Cursor, o Options) (any, error) {
	if o.Amount == SingleValue {
		row, err := cursor.Fetch()
		if err != nil || len(row) == 0 {
			return nil, err
		}
		return row[0], nil
	}

	if o.ItemFormat == FormatHash {
		if o.Amount == FirstRow {
			r, err := cursor.FetchHash()
			if err != nil || r == nil {
				return nil, err
			}
			return r, nil
		}
		data := make([]Record, 0)
		for {
			r, err := cursor.FetchHash()
			if err != nil {
				return nil, err
			}
			if r == nil {
				return data, nil
			}
			data = append(data, r)
		}
	}

	if o.Amount == FirstRow {
		r, err := cursor.Fetch()
		if err != nil || r == nil {
			return nil, err
		}
		return r, nil
	}
	data := make([]Row, 0)
	for {
		r, err := cursor.Fetch()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return data, nil
		}
		data = append(data, r)
	}
}

// wrap builds the result envelope, enriched when metadata is all
func wrap(cursor *Cursor, metadata Metadata, data any, start time.Time) any {
	switch metadata {
	case MetadataPlain:
		return data
	case MetadataAll:
		count := cursor.RowCount()
		duration := time.Since(start)
		if duration < 0 {
			duration = 0
		}
		return &Envelope{
			Count:    &count,
			Columns:  cursor.ColumnNames(),
			Data:     data,
			Date:     &start,
			Duration: &duration,
		}
	default:
		return &Envelope{Data: data}
	}
}
