package oracleraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type student struct {
	Name string
	Age  int
}

func TestParser(t *testing.T) {
	records := []Record{
		{"NAME": "Maria", "AGE": int64(20)},
		{"NAME": "Kinnie", "AGE": "30"},
	}
	expected := []student{{"Maria", 20}, {"Kinnie", 30}}

	fromData, err := Parser[[]student](records)
	require.NoError(t, err)
	assert.Equal(t, expected, fromData)

	fromEnvelope, err := Parser[[]student](&Envelope{Data: records})
	require.NoError(t, err)
	assert.Equal(t, expected, fromEnvelope)

	one, err := Parser[student](Record{"NAME": "Lucia", "AGE": int64(25)})
	require.NoError(t, err)
	assert.Equal(t, student{"Lucia", 25}, one)
}

func TestParser_Error(t *testing.T) {
	_, err := Parser[[]student](&Envelope{Data: []Record{{"AGE": "many"}}})
	assert.Error(t, err)
}
