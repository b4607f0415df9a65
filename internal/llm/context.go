package llm

import "context"

type purposeKey struct{}

// PurposeUnknown is reported for requests without a purpose label.
const PurposeUnknown = "unknown"

// WithPurpose labels requests made with ctx, e.g. "explanation".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
