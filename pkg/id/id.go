package id

import (
	"crypto/md5"
	"io"

	"github.com/gofrs/uuid"
)

// GenTraceID new random trace id
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// UUIDFromString deterministic uuid (v3 layout) from text
func UUIDFromString(text string) string {
	h := md5.New()
	io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}

// TraceIDFrom derive a trace id from parts, stable across retries
func TraceIDFrom(parts ...string) string {
	text := ""
	for _, p := range parts {
		text += p + ":"
	}

	return UUIDFromString(text)
}
