// Package gate implements the access gate guarding sensitive mutations.
//
// Authorization is a single shared secret. When no secret is configured the
// gate is a no-op passthrough. Otherwise the caller-supplied string must
// equal the configured secret; a cancelled prompt is a rejection, not an
// error. There is deliberately no timeout: a human is expected to respond,
// and the engine holds its single-flight lock across the wait so no other
// mutation can interleave.
package gate

import (
	"context"
	"crypto/subtle"
)

// PromptFunc obtains a secret from the operator. ok=false means the prompt
// was cancelled. The error return is for transport failures (closed stdin),
// which the gate also treats as rejection.
type PromptFunc func(ctx context.Context, prompt string) (value string, ok bool, err error)

// Authorizer decides whether a gated operation may proceed.
type Authorizer interface {
	Authorize(ctx context.Context, prompt string) (bool, error)
}

// Open is an Authorizer that always allows. Used in tests and for the
// ungated code paths.
type Open struct{}

func (Open) Authorize(context.Context, string) (bool, error) { return true, nil }

// Deny is an Authorizer that always rejects. Used in tests.
type Deny struct{}

func (Deny) Authorize(context.Context, string) (bool, error) { return false, nil }

// Gate compares a prompted value against the configured secret.
//
// The secret is read through a func so it always reflects the live
// settings, including a secret changed earlier in the same session.
type Gate struct {
	Secret func() string
	Prompt PromptFunc
}

// New creates a gate over a secret source and a prompt.
func New(secret func() string, prompt PromptFunc) *Gate {
	return &Gate{Secret: secret, Prompt: prompt}
}

// Authorize implements Authorizer. No configured secret -> immediate true
// without prompting.
func (g *Gate) Authorize(ctx context.Context, prompt string) (bool, error) {
	secret := ""
	if g.Secret != nil {
		secret = g.Secret()
	}
	if secret == "" {
		return true, nil
	}
	if g.Prompt == nil {
		return false, nil
	}
	value, ok, err := g.Prompt(ctx, prompt)
	if err != nil || !ok {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(value), []byte(secret)) == 1, nil
}

// Static returns a PromptFunc that always supplies the given value.
// Test helper.
func Static(value string) PromptFunc {
	return func(context.Context, string) (string, bool, error) { return value, true, nil }
}

// Cancelled returns a PromptFunc that always cancels. Test helper.
func Cancelled() PromptFunc {
	return func(context.Context, string) (string, bool, error) { return "", false, nil }
}
