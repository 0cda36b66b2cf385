package tally

import (
	"context"
	"fmt"
)

// Registration selects which vote tally certificate to create. Exactly one
// of Public or Private is set.
type Registration struct {
	Public  *PublicTally
	Private *PrivateTally
}

// Execute runs the builder of the selected variant and returns its result.
func (r Registration) Execute(ctx context.Context, b *Builder) error {
	switch {
	case r.Public != nil && r.Private != nil:
		return fmt.Errorf("%w: both public and private tally selected", ErrInvalidRegistration)
	case r.Public != nil:
		return b.Public(ctx, r.Public)
	case r.Private != nil:
		return b.Private(ctx, r.Private)
	default:
		return fmt.Errorf("%w: no tally selected", ErrInvalidRegistration)
	}
}
