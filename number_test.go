package thirdvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberDecimal(t *testing.T) {
	v, unconsumed := parseNumber([]byte("123"), 10)
	assert.Equal(t, uint32(0), unconsumed)
	assert.Equal(t, uint32(123), v)
}

func TestParseNumberNegative(t *testing.T) {
	v, unconsumed := parseNumber([]byte("-42"), 10)
	assert.Equal(t, uint32(0), unconsumed)
	want := int32(-42)
	assert.Equal(t, uint32(want), v)
}

func TestParseNumberLoneHyphenFails(t *testing.T) {
	_, unconsumed := parseNumber([]byte("-"), 10)
	assert.Equal(t, uint32(1), unconsumed)
}

func TestParseNumberHyphenNonDigitFails(t *testing.T) {
	_, unconsumed := parseNumber([]byte("-x"), 10)
	assert.Equal(t, uint32(2), unconsumed)
}

func TestParseNumberHex(t *testing.T) {
	v, unconsumed := parseNumber([]byte("ff"), 16)
	assert.Equal(t, uint32(0), unconsumed)
	assert.Equal(t, uint32(255), v)
}

func TestParseNumberStopsAtFirstInvalidDigit(t *testing.T) {
	_, unconsumed := parseNumber([]byte("12a"), 10)
	assert.Equal(t, uint32(1), unconsumed)
}

func TestParseNumberEmptyToken(t *testing.T) {
	v, unconsumed := parseNumber(nil, 10)
	assert.Equal(t, uint32(0), unconsumed)
	assert.Equal(t, uint32(0), v)
}
