package domain

import "context"

// PromoCodeStore holds one-time codes per conference.
type PromoCodeStore interface {
	// Consume removes code from the conference pool; false means it was not there.
	Consume(ctx context.Context, conferenceID, code string) (bool, error)
	Add(ctx context.Context, conferenceID string, codes []string) error
	Count(ctx context.Context) (map[string]int, error)
}
