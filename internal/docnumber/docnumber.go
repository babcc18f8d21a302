// Package docnumber issues human-readable invoice and return numbers.
// Uniqueness is enforced by the storage layer; a collision surfaces as
// ErrConflict and the caller may retry with a fresh number.
package docnumber

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/retailbook/internal/clock"
	"github.com/smallbiznis/retailbook/internal/config"
)

type Kind string

const (
	KindSaleInvoice     Kind = "sale_invoice"
	KindPurchaseInvoice Kind = "purchase_invoice"
	KindSaleReturn      Kind = "sale_return"
	KindPurchaseReturn  Kind = "purchase_return"
)

var ErrConflict = errors.New("document_number_conflict")

// IsRetryable reports whether err may succeed with a new document number.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Prefix returns the document number prefix for kind.
func (k Kind) Prefix() string {
	switch k {
	case KindSaleInvoice:
		return "INV"
	case KindPurchaseInvoice:
		return "PO"
	case KindSaleReturn:
		return "SR"
	case KindPurchaseReturn:
		return "PR"
	default:
		return strings.ToUpper(string(k))
	}
}

//go:generate mockgen -destination=mock/generator_mock.go -package=mock github.com/smallbiznis/retailbook/internal/docnumber Generator

// Generator issues the next document number for kind.
type Generator interface {
	Next(ctx context.Context, kind Kind) (string, error)
}

// DateSequenceGenerator produces PREFIX-YYYYMMDD-NNNN with a random
// four digit suffix.
type DateSequenceGenerator struct {
	clock clock.Clock
}

func NewDateSequenceGenerator(c clock.Clock) *DateSequenceGenerator {
	return &DateSequenceGenerator{clock: c}
}

func (g *DateSequenceGenerator) Next(ctx context.Context, kind Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n, err := rand.Int(rand.Reader, big.NewInt(9999))
	if err != nil {
		return "", fmt.Errorf("draw document sequence: %w", err)
	}
	return fmt.Sprintf("%s-%s-%04d", kind.Prefix(), g.clock.Now().UTC().Format("20060102"), n.Int64()+1), nil
}

// ULIDGenerator produces PREFIX-<ULID>. ULIDs from one generator are
// monotonic, so numbers also sort by issue time.
type ULIDGenerator struct {
	clock   clock.Clock
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator(c clock.Clock) *ULIDGenerator {
	return &ULIDGenerator{
		clock:   c,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (g *ULIDGenerator) Next(ctx context.Context, kind Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.clock.Now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("generate ulid: %w", err)
	}
	return kind.Prefix() + "-" + id.String(), nil
}

// New picks the generator named by the configured strategy.
func New(cfg config.Config, c clock.Clock) Generator {
	if cfg.DocumentNumberStrategy == config.DocumentNumberULID {
		return NewULIDGenerator(c)
	}
	return NewDateSequenceGenerator(c)
}
