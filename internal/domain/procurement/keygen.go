package procurement

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	alnumAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// largest multiple of len(alnumAlphabet) that fits in a byte; bytes at or
	// above it are rejected so every symbol is equally likely
	alnumCutoff = 252

	grnNumberTokenLen = 5
	hexIDBytes        = 4
	lineSegmentLen    = 5
)

// KeyGenerator synthesizes every business and surrogate key of a record set.
// It is safe for concurrent use; reads from the random source are serialized.
type KeyGenerator struct {
	mu     sync.Mutex
	random io.Reader
	now    func() time.Time
}

// KeyGeneratorOption configures a KeyGenerator
type KeyGeneratorOption func(*KeyGenerator)

// WithRandomSource replaces crypto/rand. Tests pass a seeded generator to get
// reproducible keys.
func WithRandomSource(r io.Reader) KeyGeneratorOption {
	return func(g *KeyGenerator) { g.random = r }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) KeyGeneratorOption {
	return func(g *KeyGenerator) { g.now = now }
}

// NewKeyGenerator creates a KeyGenerator backed by crypto/rand and the wall clock
func NewKeyGenerator(opts ...KeyGeneratorOption) *KeyGenerator {
	g := &KeyGenerator{random: rand.Reader, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Now returns the current processing time
func (g *KeyGenerator) Now() time.Time {
	return g.now()
}

func (g *KeyGenerator) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return nil, fmt.Errorf("read random source: %w", err)
	}
	return buf, nil
}

// UUID returns a random version 4 UUID
func (g *KeyGenerator) UUID() (uuid.UUID, error) {
	buf, err := g.read(16)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.NewRandomFromReader(bytes.NewReader(buf))
}

// GRNNumber returns GRN-<YYYYMMDD>-<5 random A-Z0-9> for the given processing date
func (g *KeyGenerator) GRNNumber(date time.Time) (string, error) {
	token, err := g.alnum(grnNumberTokenLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("GRN-%s-%s", date.Format("20060102"), token), nil
}

// GRNID returns GRNID-<8 random hex>
func (g *KeyGenerator) GRNID() (string, error) {
	return g.hexID("GRNID")
}

// POID returns POID-<8 random hex>
func (g *KeyGenerator) POID() (string, error) {
	return g.hexID("POID")
}

// POConditionID returns POCOND-<8 random hex>
func (g *KeyGenerator) POConditionID() (string, error) {
	return g.hexID("POCOND")
}

// GRNLineID returns GRNLN-<segment>-<NNNN>, where segment is the first five
// hex characters of the owning GRN ID
func (g *KeyGenerator) GRNLineID(grnID string, lineNo int) string {
	return fmt.Sprintf("GRNLN-%s-%04d", lineSegment(grnID), lineNo)
}

// POLineID returns POLN-<segment>-<NNNN>, where segment is the first five hex
// characters of the owning PO ID
func (g *KeyGenerator) POLineID(poID string, lineNo int) string {
	return fmt.Sprintf("POLN-%s-%04d", lineSegment(poID), lineNo)
}

func (g *KeyGenerator) hexID(prefix string) (string, error) {
	buf, err := g.read(hexIDBytes)
	if err != nil {
		return "", err
	}
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (g *KeyGenerator) alnum(n int) (string, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		buf, err := g.read(n - len(out))
		if err != nil {
			return "", err
		}
		for _, b := range buf {
			if b < alnumCutoff {
				out = append(out, alnumAlphabet[int(b)%len(alnumAlphabet)])
			}
		}
	}
	return string(out), nil
}

func lineSegment(headerID string) string {
	_, suffix, found := strings.Cut(headerID, "-")
	if !found {
		suffix = headerID
	}
	if len(suffix) > lineSegmentLen {
		suffix = suffix[:lineSegmentLen]
	}
	return suffix
}
