package oracleraw

import (
	"database/sql"
	"testing"
	"time"

	goOra "github.com/sijms/go-ora/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParamsList(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		desc     string
		params   []Param
		expected []any
	}{
		{"nil list", nil, []any{}},
		{"auto passes through", []Param{NewParam("name", "Kinnie", BindAuto)}, []any{sql.Named("name", "Kinnie")}},
		{"leading colon stripped", []Param{NewParam(":name", "Kinnie", BindString)}, []any{sql.Named("name", "Kinnie")}},
		{"int to integer", []Param{NewParam("age", 30, BindInteger)}, []any{sql.Named("age", int64(30))}},
		{"uint to integer", []Param{NewParam("age", uint8(30), BindInteger)}, []any{sql.Named("age", int64(30))}},
		{"int to number", []Param{NewParam("salary", 30, BindNumber)}, []any{sql.Named("salary", float64(30))}},
		{"float to number", []Param{NewParam("salary", 12.5, BindNumber)}, []any{sql.Named("salary", 12.5)}},
		{"time", []Param{NewParam("born", now, BindTime)}, []any{sql.Named("born", now)}},
		{"raw", []Param{NewParam("blob", []byte("ab"), BindBytes)}, []any{sql.Named("blob", []byte("ab"))}},
		{"nil is null", []Param{NewParam("age", nil, BindInteger)}, []any{sql.Named("age", nil)}},
		{
			"order kept",
			[]Param{NewParam("name", "Kinnie", BindString), NewParam("age", 30, BindInteger)},
			[]any{sql.Named("name", "Kinnie"), sql.Named("age", int64(30))},
		},
		{
			"duplicates kept",
			[]Param{NewParam("age", 1, BindAuto), NewParam("age", 2, BindAuto)},
			[]any{sql.Named("age", 1), sql.Named("age", 2)},
		},
	}

	for i, tc := range testCases {
		values, err := buildParamsList(tc.params)

		require.NoError(t, err, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.expected, values, "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestBuildParamsList_Arrays(t *testing.T) {
	testCases := []struct {
		desc     string
		param    Param
		expected any
	}{
		{"auto array untouched", NewParam("names", []string{"a", "b"}, BindAuto), []string{"a", "b"}},
		{"ints to integer array", NewParam("ages", []int{1, 2}, BindInteger), []int64{1, 2}},
		{"any to string array", NewParam("names", []any{"a", "b"}, BindString), []string{"a", "b"}},
		{"ints to number array", NewParam("salaries", []int32{1, 2}, BindNumber), []float64{1, 2}},
		{"raw array", NewParam("blobs", [][]byte{[]byte("a")}, BindBytes), [][]byte{[]byte("a")}},
	}

	for i, tc := range testCases {
		values, err := buildParamsList([]Param{tc.param})

		require.NoError(t, err, "TEST[%d], Failed.\n%s", i, tc.desc)
		require.Len(t, values, 1, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.expected, values[0].(sql.NamedArg).Value, "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestBuildParamsList_TypeMismatch(t *testing.T) {
	testCases := []struct {
		desc    string
		param   Param
		message string
	}{
		{"string into integer", NewParam("age", "30", BindInteger), "bind :age: type mismatch, expected INTEGER but got string"},
		{"string into number", NewParam(":salary", "1.5", BindNumber), "bind :salary: type mismatch, expected NUMBER but got string"},
		{"int into string", NewParam("name", 1, BindString), "bind :name: type mismatch, expected VARCHAR2 but got int"},
		{"string into date", NewParam("born", "2024-01-01", BindTime), "bind :born: type mismatch, expected DATE but got string"},
		{"float into integer", NewParam("age", 1.5, BindInteger), "bind :age: type mismatch, expected INTEGER but got float64"},
		{"array element", NewParam("ages", []any{1, "two"}, BindInteger), "bind :ages[1]: type mismatch, expected INTEGER but got string"},
		{"nil array element", NewParam("ages", []any{1, nil}, BindInteger), "bind :ages[1]: type mismatch, expected INTEGER but got nil"},
		{"uint64 above int64", NewParam("id", uint64(1<<63), BindInteger), "bind :id: uint64 value out of range for INTEGER"},
		{"array uint overflow", NewParam("ids", []uint64{1, 1 << 63}, BindInteger), "bind :ids[1]: uint64 value out of range for INTEGER"},
	}

	for i, tc := range testCases {
		_, err := buildParamsList([]Param{tc.param})

		var bindErr *BindError
		require.ErrorAs(t, err, &bindErr, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.EqualError(t, err, tc.message, "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestBindType_String(t *testing.T) {
	assert.Equal(t, "INTEGER", BindInteger.String())
	assert.Equal(t, "BindType(42)", BindType(42).String())
	assert.Equal(t, "BindType(-1)", BindType(-1).String())
	assert.Equal(t, "InputOutput", InOut.String())
	assert.Equal(t, "ParameterDirection(7)", ParameterDirection(7).String())

	err := &BindError{Name: "age", Expected: BindType(9), Actual: "string", Index: -1}
	assert.EqualError(t, err, "bind :age: type mismatch, expected BindType(9) but got string")
}

func TestBuildParamsList_OutParams(t *testing.T) {
	var total int64
	inout := NewOutParam("counter", &total, 8)
	inout.Direction = InOut

	values, err := buildParamsList([]Param{NewOutParam(":total", &total, 8), inout})
	require.NoError(t, err)

	assert.Equal(t, sql.Named("total", goOra.Out{Dest: &total, Size: 8}), values[0])
	assert.Equal(t, sql.Named("counter", goOra.Out{Dest: &total, Size: 8, In: true}), values[1])
}

func TestParseBindType(t *testing.T) {
	testCases := []struct {
		name     string
		expected BindType
	}{
		{"", BindAuto},
		{"String", BindString},
		{"INTEGER", BindInteger},
		{"number", BindNumber},
		{"date", BindTime},
		{"raw", BindBytes},
	}

	for i, tc := range testCases {
		kind, err := ParseBindType(tc.name)

		require.NoError(t, err, "TEST[%d], Failed.\n%s", i, tc.name)
		assert.Equal(t, tc.expected, kind, "TEST[%d], Failed.\n%s", i, tc.name)
	}

	_, err := ParseBindType("clob")
	assert.Error(t, err)
}
