package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  clerk  \n"), "Username", &out)
	require.NoError(t, err)
	assert.Equal(t, "clerk", got)
	assert.Equal(t, "Username\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(&out)
	require.Error(t, err)
}

func TestParsers(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	_, err = parseID("0")
	require.Error(t, err)
	_, err = parseID("x")
	require.Error(t, err)

	idx, err := parseIndex("1")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	_, err = parseIndex("0")
	require.Error(t, err)

	n, err := parseCount("-3")
	require.NoError(t, err)
	assert.Equal(t, -3, n)

	w, err := parseWeight("120,5")
	require.NoError(t, err)
	assert.True(t, w.Valid)
	assert.Equal(t, "120.5", w.Decimal.String())
	_, err = parseWeight("heavy")
	require.Error(t, err)

	d, err := parseDate("31.08.2026")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", d.Input())
}
