package service

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"todbc/internal/core"

	"github.com/stretchr/testify/assert"
)

func littleEndian() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}

func TestIndicatorHex(t *testing.T) {
	assert.Equal(t, "ffffffffffffffff", IndicatorHex(-1))
	assert.Equal(t, "0000000000000000", IndicatorHex(0))

	if littleEndian() {
		assert.Equal(t, "0500000000000000", IndicatorHex(5))
		assert.Equal(t, "0001000000000000", IndicatorHex(256))
	} else {
		assert.Equal(t, "0000000000000005", IndicatorHex(5))
		assert.Equal(t, "0000000000000100", IndicatorHex(256))
	}
}

func TestDumpColumn(t *testing.T) {
	var buf core.ColumnBuffer
	copy(buf.Data[:], "hello\x00")
	buf.Indicator = 5

	var out bytes.Buffer
	dumpColumn(&out, "LITERAL PREFIX", &buf)

	assert.Equal(t, "LITERAL PREFIX\n"+
		"indicator(d): 5\n"+
		"indicator(lld): 5\n"+
		"indicator(hex):  "+IndicatorHex(5)+"\n"+
		fmt.Sprintf("%-32s\n\n", "hello"), out.String())
}

func TestDumpColumnNull(t *testing.T) {
	var buf core.ColumnBuffer
	copy(buf.Data[:], "stale\x00")
	buf.Reset()

	var out bytes.Buffer
	dumpColumn(&out, "", &buf)

	assert.Equal(t, "indicator(d): -1\n"+
		"indicator(lld): -1\n"+
		"indicator(hex):  ffffffffffffffff\n"+
		fmt.Sprintf("%-32s\n\n", "NULL"), out.String())
}

func TestDumpColumnWideIndicator(t *testing.T) {
	var buf core.ColumnBuffer
	buf.Indicator = 1<<32 + 7

	var out bytes.Buffer
	dumpColumn(&out, "", &buf)

	assert.Contains(t, out.String(), "indicator(d): 7\n")
	assert.Contains(t, out.String(), "indicator(lld): 4294967303\n")
}
