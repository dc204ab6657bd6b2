package protocol

import (
	"crypto/rand"
	"io"
)

// IVSize and NonceSize are the random byte counts the protocol consumes:
// a 16-byte AES-CTR initial counter and a 16-byte commitment nonce.
const (
	IVSize    = 16
	NonceSize = 16
)

// Options configures the randomness the protocol draws on. Tests inject a
// deterministic Rand (e.g. bytes.NewReader over a fixture) so precontracts
// and commitments are reproducible; production code leaves Rand nil and
// gets crypto/rand.
type Options struct {
	Rand io.Reader
}

// DefaultOptions returns an Options backed by crypto/rand.
func DefaultOptions() Options {
	return Options{Rand: rand.Reader}
}

func (o Options) reader() io.Reader {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.Reader
}

// randomBytes draws exactly n bytes from the configured source.
func (o Options) randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(o.reader(), buf); err != nil {
		return nil, err
	}
	return buf, nil
}
