package differ

// Option is a functional option for configuring Differ.
type Option func(*differ)

// WithHoldsFiltering controls whether held keys are removed from Missing.
// It is on by default; a nil Holds disables it regardless.
func WithHoldsFiltering(enabled bool) Option {
	return func(d *differ) {
		d.holdsFiltering = enabled
	}
}
