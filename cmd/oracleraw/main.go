package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/erikwco/oracleraw"
	"github.com/goccy/go-json"
)

// paramFlags collects repeated -param name=value[:type] flags
type paramFlags []string

func (p *paramFlags) String() string { return strings.Join(*p, ",") }

func (p *paramFlags) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	var params paramFlags
	configPath := flag.String("config", "oracleraw.yaml", "configuration file")
	stmt := flag.String("sql", "", "statement to run")
	format := flag.String("format", "", "item format: array | hash")
	amount := flag.String("amount", "", "amount: all_rows | first_row | single_value")
	metadata := flag.String("metadata", "", "metadata: none | plain | all")
	flag.Var(&params, "param", "bind parameter name=value[:type], repeatable")
	flag.Parse()

	if *stmt == "" {
		fmt.Fprintln(os.Stderr, "-sql is required")
		os.Exit(2)
	}

	binds, err := parseParams(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameter [%s]\n", err.Error())
		os.Exit(2)
	}

	cfg, err := oracleraw.ReadConfiguration(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration [%s]\n", err.Error())
		os.Exit(1)
	}

	log := oracleraw.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Environment)
	db, err := oracleraw.Open(cfg, log)
	if err != nil {
		log.Err(err).Msg("could not open connection pool")
		os.Exit(1)
	}
	defer db.Close()

	opts := &oracleraw.Options{
		ItemFormat: oracleraw.ItemFormat(*format),
		Amount:     oracleraw.Amount(*amount),
		Metadata:   oracleraw.Metadata(*metadata),
	}

	result, err := db.Query(context.Background(), *stmt, binds, opts)
	if err != nil {
		log.Err(err).Msg("query failed")
		db.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(result); err != nil {
		log.Err(err).Msg("could not encode result")
	}
}

// parseParams turns name=value[:type] into typed params. The value is
// converted from text into the declared type before binding.
func parseParams(raw []string) ([]oracleraw.Param, error) {
	out := make([]oracleraw.Param, 0, len(raw))
	for _, r := range raw {
		name, rest, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not name=value", r)
		}

		value, typeName := rest, ""
		if i := strings.LastIndex(rest, ":"); i >= 0 {
			if _, err := oracleraw.ParseBindType(rest[i+1:]); err == nil {
				value, typeName = rest[:i], rest[i+1:]
			}
		}

		kind, err := oracleraw.ParseBindType(typeName)
		if err != nil {
			return nil, err
		}

		v, err := fromText(value, kind)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		out = append(out, oracleraw.NewParam(name, v, kind))
	}
	return out, nil
}

func fromText(value string, kind oracleraw.BindType) (any, error) {
	switch kind {
	case oracleraw.BindInteger:
		return strconv.ParseInt(value, 10, 64)
	case oracleraw.BindNumber:
		return strconv.ParseFloat(value, 64)
	case oracleraw.BindTime:
		return time.Parse(time.RFC3339, value)
	case oracleraw.BindBytes:
		return []byte(value), nil
	}
	return value, nil
}
