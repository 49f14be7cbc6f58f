package service

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"todbc/internal/core"
)

// IndicatorHex returns the in-memory byte sequence of an indicator in the
// host's native byte order. The output differs between little- and
// big-endian machines; that is the point of the dump.
func IndicatorHex(ind int64) string {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], uint64(ind))
	return hex.EncodeToString(b[:])
}

// dumpColumn prints the raw indicator of buf three ways followed by its
// content, or NULL when the indicator holds the null marker. The (d) line
// is the low 32 bits, as a C %d of a 64-bit length would print.
func dumpColumn(w io.Writer, label string, buf *core.ColumnBuffer) {
	if label != "" {
		fmt.Fprintln(w, label)
	}
	fmt.Fprintf(w, "indicator(d): %d\n", int32(buf.Indicator))
	fmt.Fprintf(w, "indicator(lld): %d\n", buf.Indicator)
	fmt.Fprintf(w, "indicator(hex):  %s\n", IndicatorHex(buf.Indicator))

	content := "NULL"
	if !buf.IsNull() {
		content = buf.Text()
	}
	fmt.Fprintf(w, "%-32s\n\n", content)
}
