package runner

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newDecoder wraps r so that every Read returns whole UTF-8 sequences.
// A multi-byte character split across two pipe reads is held back until
// its remaining bytes arrive; invalid bytes become U+FFFD.
func newDecoder(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8.NewDecoder())
}
