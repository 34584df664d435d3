// Package idempotency derives the deduplication key of an order creation request.
//
// A client-supplied key is used verbatim. Without one, the key is the hex SHA-256
// digest of a canonical JSON encoding of the request, so structurally identical
// requests collapse to the same key. The resolver never looks at stored orders.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is one requested line.
type Item struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Request is the content of a creation request that identifies it.
type Request struct {
	CustomerID string
	Items      []Item
}

// canonicalItem fixes field order and prints prices with exactly two fractional
// digits, so 5.5 and 5.50 produce the same key.
type canonicalItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type canonicalRequest struct {
	CustomerID string          `json:"customerId"`
	Items      []canonicalItem `json:"items"`
}

// Resolver computes idempotency keys.
type Resolver struct {
	marshal func(v any) ([]byte, error)
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithMarshaler replaces the canonical encoder.
func WithMarshaler(marshal func(v any) ([]byte, error)) Option {
	return func(r *Resolver) {
		r.marshal = marshal
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{marshal: json.Marshal}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns explicitKey when it is not blank, otherwise the derived key.
// Encoding failures are returned as *errs.KeyGenerationFailedError.
func (r *Resolver) Resolve(explicitKey string, req Request) (string, error) {
	if strings.TrimSpace(explicitKey) != "" {
		return explicitKey, nil
	}
	return r.Derive(req)
}

// Derive hashes the canonical form of req.
func (r *Resolver) Derive(req Request) (string, error) {
	canonical := canonicalRequest{
		CustomerID: req.CustomerID,
		Items:      make([]canonicalItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		canonical.Items = append(canonical.Items, canonicalItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(kernel.MoneyScale),
		})
	}

	payload, err := r.marshal(canonical)
	if err != nil {
		return "", errs.NewKeyGenerationFailedError(err)
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
