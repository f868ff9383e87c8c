package locator

import "context"

// Builder turns the resource names a transfer session receives into locators.
// Each session holds exactly one Builder, chosen when the session is opened.
type Builder interface {
	// Base returns the locator the session was opened with.
	Base() Locator

	// Locate resolves resourceName relative to the session's locator.
	Locate(ctx context.Context, resourceName string) (Locator, error)
}

// DirectBuilder resolves resource names against a parsed git: locator.
type DirectBuilder struct {
	base Locator
}

var _ Builder = (*DirectBuilder)(nil)

// NewDirectBuilder returns a Builder anchored at base.
func NewDirectBuilder(base Locator) *DirectBuilder {
	return &DirectBuilder{base: base}
}

// Base implements Builder.
func (b *DirectBuilder) Base() Locator {
	return b.base
}

// Locate implements Builder with Resolve.
func (b *DirectBuilder) Locate(_ context.Context, resourceName string) (Locator, error) {
	return Resolve(b.base, resourceName)
}
