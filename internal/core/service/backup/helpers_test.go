package backup_test

import (
	"io"
	"log/slog"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// accdbContent returns the leading bytes of an Access 2007+ database
func accdbContent() []byte {
	buf := make([]byte, 512)
	copy(buf, []byte{0x00, 0x01, 0x00, 0x00})
	copy(buf[4:], "Standard ACE DB")
	return buf
}

// mdbContent returns the leading bytes of a legacy Jet database
func mdbContent() []byte {
	buf := make([]byte, 512)
	copy(buf, []byte{0x00, 0x01, 0x00, 0x00})
	copy(buf[4:], "Standard Jet DB")
	return buf
}

func pngContent() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
}

func at(value string) *time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &parsed
}
