package oracleraw

import (
	"errors"
	"fmt"
	"reflect"

	pkgerrors "github.com/pkg/errors"
	"github.com/sijms/go-ora/v2/network"
)

// Oracle error codes inspected by the helpers below
const (
	oraTableOrViewDoesNotExist = 942
)

var EmptyDescriptorErr = errors.New("connection descriptor can't be blank")
var EmptySchemaErr = errors.New("schema can't be blank")
var PoolClosedErr = errors.New("connection pool is closed")
var CantCreateConnErr = func(err error) error {
	return pkgerrors.Wrap(err, "connection could not be created")
}
var CantPingConnection = func(err error) error { return pkgerrors.Wrap(err, "ping test failed") }
var InvalidConfigErr = func(error string) error { return fmt.Errorf("invalid configuration [%s]", error) }

// BindError is returned when a parameter value can not be converted into
// its declared BindType
type BindError struct {
	Name     string
	Expected BindType
	Actual   string
	Index    int // position inside an array bind, -1 for scalars
	// OutOfRange is set when the type matches but the value does not fit
	OutOfRange bool
}

func (e *BindError) Error() string {
	if e.OutOfRange {
		if e.Index >= 0 {
			return fmt.Sprintf("bind :%s[%d]: %s value out of range for %s", e.Name, e.Index, e.Actual, e.Expected)
		}
		return fmt.Sprintf("bind :%s: %s value out of range for %s", e.Name, e.Actual, e.Expected)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("bind :%s[%d]: type mismatch, expected %s but got %s", e.Name, e.Index, e.Expected, e.Actual)
	}
	return fmt.Sprintf("bind :%s: type mismatch, expected %s but got %s", e.Name, e.Expected, e.Actual)
}

func newBindError(name string, expected BindType, value any, index int) *BindError {
	actual := "nil"
	if value != nil {
		actual = reflect.TypeOf(value).String()
	}
	return &BindError{Name: name, Expected: expected, Actual: actual, Index: index}
}

func newRangeError(name string, expected BindType, value any, index int) *BindError {
	e := newBindError(name, expected, value, index)
	e.OutOfRange = true
	return e
}

// OracleErrorCode returns the ORA code carried by err, if any
func OracleErrorCode(err error) (int, bool) {
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return oraErr.ErrCode, true
	}
	return 0, false
}

// IsMissingObject reports whether err is ORA-00942 (table or view does not exist)
func IsMissingObject(err error) bool {
	code, ok := OracleErrorCode(err)
	return ok && code == oraTableOrViewDoesNotExist
}
