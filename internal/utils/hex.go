package utils

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// HexDump renders at most limit bytes of b as uppercase hex. Longer input is
// cut and suffixed with the number of omitted bytes, e.g. "0400AB..(+12)".
// limit <= 0 dumps everything.
func HexDump(b []byte, limit int) string {
	if limit <= 0 || len(b) <= limit {
		return strings.ToUpper(hex.EncodeToString(b))
	}
	var sb strings.Builder
	sb.Grow(limit*2 + 10)
	sb.WriteString(strings.ToUpper(hex.EncodeToString(b[:limit])))
	sb.WriteString("..(+")
	sb.WriteString(strconv.Itoa(len(b) - limit))
	sb.WriteByte(')')
	return sb.String()
}
