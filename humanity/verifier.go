// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package humanity checks proof-of-humanity tokens before a vote is recorded.
package humanity

import "context"

// Verifier decides whether a challenge token was produced by a human.
// Implementations never return errors: anything short of a positive
// answer is a rejection.
type Verifier interface {
	Verify(ctx context.Context, token, remoteAddr string) bool
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, token, remoteAddr string) bool

func (f VerifierFunc) Verify(ctx context.Context, token, remoteAddr string) bool {
	return f(ctx, token, remoteAddr)
}
