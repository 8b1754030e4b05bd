package oracleraw

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// Row is a fetched row in column order
type Row []any

// Record is a fetched row keyed by column name
type Record map[string]any

// Envelope wraps the data returned by Query unless Metadata is plain.
// Count, Columns, Date and Duration are only filled for Metadata all.
type Envelope struct {
	Count    *int64         `json:"count,omitempty"`
	Columns  []string       `json:"columns,omitempty"`
	Data     any            `json:"data"`
	Date     *time.Time     `json:"date,omitempty"`
	Duration *time.Duration `json:"duration,omitempty"`
}

// Parser converts a Query result into T. An *Envelope is unwrapped first.
// Parameters:
// @source: value returned by Query
func Parser[T any](source any) (T, error) {
	var empty T
	var data T

	if env, ok := source.(*Envelope); ok {
		source = env.Data
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &data,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return empty, err
	}
	if err = decoder.Decode(source); err != nil {
		return empty, err
	}
	return data, nil
}
