//go:build !manifold

// Package manifold provides a CGo-based geometry backend binding to the
// Manifold library. When the "manifold" build tag is not set, this stub
// package is compiled instead, returning an error from New().
//
// Build with: go build -tags=manifold
package manifold

import (
	"errors"

	"github.com/kpryor/burin/pkg/kernel"
)

// New returns an error indicating Manifold is not available.
// Build with -tags=manifold to enable.
func New() (kernel.Body, error) {
	return nil, errors.New("manifold backend not available: build with -tags=manifold")
}
