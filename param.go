package oracleraw

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	goOra "github.com/sijms/go-ora/v2"
)

// ParameterDirection defines the direction of the parameter
type ParameterDirection int

const (
	Input ParameterDirection = iota
	Output
	InOut
)

var directionNames = [...]string{"Input", "Output", "InputOutput"}

func (p ParameterDirection) String() string {
	if p < 0 || int(p) >= len(directionNames) {
		return fmt.Sprintf("ParameterDirection(%d)", int(p))
	}
	return directionNames[p]
}

// BindType is the declared type of a bound value
type BindType int

const (
	BindAuto BindType = iota
	BindString
	BindInteger
	BindNumber
	BindTime
	BindBytes
)

var bindTypeNames = [...]string{"AUTO", "VARCHAR2", "INTEGER", "NUMBER", "DATE", "RAW"}

func (b BindType) String() string {
	if b < 0 || int(b) >= len(bindTypeNames) {
		return fmt.Sprintf("BindType(%d)", int(b))
	}
	return bindTypeNames[b]
}

// Param used to bind a value by name into a statement. A slice Value
// (other than []byte) is bound as an array.
type Param struct {
	Name      string
	Value     any
	Type      BindType
	Size      int
	Direction ParameterDirection
}

// NewParam creates an Input parameter of the given declared type
// Parameters:
// @name: bind variable name, with or without the leading ':'
// @value: value to be bound
// @kind: declared type, BindAuto to pass the value as is
func NewParam(name string, value any, kind BindType) Param {
	return Param{
		Name:      name,
		Value:     value,
		Type:      kind,
		Size:      100,
		Direction: Input,
	}
}

// NewOutParam creates an Output parameter, dest must be a pointer
func NewOutParam(name string, dest any, size int) Param {
	return Param{
		Name:      name,
		Value:     dest,
		Size:      size,
		Direction: Output,
	}
}

// bindName strips the leading ':' so ":age" and "age" address the same variable
func (p Param) bindName() string {
	return strings.TrimPrefix(p.Name, ":")
}

func (p Param) isArray() bool {
	if p.Value == nil {
		return false
	}
	if _, raw := p.Value.([]byte); raw {
		return false
	}
	return reflect.TypeOf(p.Value).Kind() == reflect.Slice
}

// buildParamsList takes a list of @Param and converts it into the named
// arguments go-ora expects, in the given order
// Parameters:
// @parameters List of parameters to convert
func buildParamsList(parameters []Param) ([]any, error) {
	values := make([]any, 0, len(parameters))

	for _, p := range parameters {
		name := p.bindName()

		// output and in/out binds go through goOra.Out
		if p.Direction == Output || p.Direction == InOut {
			values = append(values, sql.Named(name, goOra.Out{Dest: p.Value, Size: p.Size, In: p.Direction == InOut}))
			continue
		}

		var (
			v   any
			err error
		)
		if p.isArray() {
			v, err = convertArray(name, p.Value, p.Type)
		} else {
			v, err = convertValue(name, p.Value, p.Type, -1)
		}
		if err != nil {
			return nil, err
		}
		values = append(values, sql.Named(name, v))
	}

	return values, nil
}

// convertValue converts a scalar into the Go type the driver binds for kind
func convertValue(name string, value any, kind BindType, index int) (any, error) {
	if value == nil || kind == BindAuto {
		return value, nil
	}

	rv := reflect.ValueOf(value)
	switch kind {
	case BindString:
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
	case BindInteger:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if rv.Uint() > math.MaxInt64 {
				return nil, newRangeError(name, kind, value, index)
			}
			return int64(rv.Uint()), nil
		}
	case BindNumber:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), nil
		case reflect.Float32, reflect.Float64:
			return rv.Float(), nil
		}
	case BindTime:
		if t, ok := value.(time.Time); ok {
			return t, nil
		}
	case BindBytes:
		if b, ok := value.([]byte); ok {
			return b, nil
		}
	default:
		return nil, fmt.Errorf("bind :%s: unknown bind type %d", name, kind)
	}

	return nil, newBindError(name, kind, value, index)
}

// convertArray builds the typed slice go-ora needs for array binding
func convertArray(name string, value any, kind BindType) (any, error) {
	if kind == BindAuto {
		return value, nil
	}

	rv := reflect.ValueOf(value)
	var out reflect.Value
	switch kind {
	case BindString:
		out = reflect.MakeSlice(reflect.TypeOf([]string{}), rv.Len(), rv.Len())
	case BindInteger:
		out = reflect.MakeSlice(reflect.TypeOf([]int64{}), rv.Len(), rv.Len())
	case BindNumber:
		out = reflect.MakeSlice(reflect.TypeOf([]float64{}), rv.Len(), rv.Len())
	case BindTime:
		out = reflect.MakeSlice(reflect.TypeOf([]time.Time{}), rv.Len(), rv.Len())
	case BindBytes:
		out = reflect.MakeSlice(reflect.TypeOf([][]byte{}), rv.Len(), rv.Len())
	default:
		return nil, fmt.Errorf("bind :%s: unknown bind type %d", name, kind)
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if elem == nil {
			return nil, newBindError(name, kind, nil, i)
		}
		v, err := convertValue(name, elem, kind, i)
		if err != nil {
			return nil, err
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}

	return out.Interface(), nil
}

// ParseBindType maps a type name (string, integer, number, date, raw) to
// its BindType. An empty name is BindAuto.
func ParseBindType(name string) (BindType, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return BindAuto, nil
	case "string", "varchar2", "varchar":
		return BindString, nil
	case "integer", "int":
		return BindInteger, nil
	case "number", "float":
		return BindNumber, nil
	case "date", "time", "timestamp":
		return BindTime, nil
	case "raw", "bytes":
		return BindBytes, nil
	}
	return BindAuto, fmt.Errorf("unknown bind type %q", name)
}
