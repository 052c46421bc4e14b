package injury

import (
	"context"
	"regexp"
)

// unavailablePattern matches statuses that rule a player out for the
// projected game. Day-to-day and questionable players stay in the pool.
var unavailablePattern = regexp.MustCompile(`(?i)\b(out|surgery|indefinite(ly)?)\b`)

// Unavailable reports whether a status string rules the player out.
func Unavailable(status string) bool {
	return unavailablePattern.MatchString(status)
}

// Exclusions reduces report rows to the set of player names to drop from
// the projection output.
func Exclusions(reports []Report) map[string]struct{} {
	excluded := make(map[string]struct{})
	for _, r := range reports {
		if Unavailable(r.Status) {
			excluded[r.Player] = struct{}{}
		}
	}
	return excluded
}

// Source is the narrow capability the projection run depends on: the set
// of currently unavailable player names. Implementations own all HTML and
// transport detail.
type Source interface {
	FetchUnavailable(ctx context.Context) (map[string]struct{}, error)
}

// Reporter adapts Client to Source.
type Reporter struct {
	client *Client
}

// NewReporter wraps a scraper client.
func NewReporter(client *Client) *Reporter {
	return &Reporter{client: client}
}

// FetchUnavailable scrapes the injury report and returns the exclusion
// set. Errors are reported to the caller, which degrades to an empty set;
// a failed scrape must never abort a projection run.
func (r *Reporter) FetchUnavailable(ctx context.Context) (map[string]struct{}, error) {
	reports, err := r.client.FetchReport(ctx)
	if err != nil {
		return nil, err
	}
	return Exclusions(reports), nil
}
