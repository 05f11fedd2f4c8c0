package challenge

// BadgeCatalog maps a challenge's display name to the badge awarded on
// completion. Challenges without an entry simply award nothing. The
// catalog is injected into the challenge service at construction rather
// than living in a package global, so deployments can run different
// campaign seasons without code changes.
type BadgeCatalog map[string]string

// BadgeFor looks up the badge name configured for a challenge.
func (c BadgeCatalog) BadgeFor(challengeName string) (string, bool) {
	name, ok := c[challengeName]
	return name, ok
}

// DefaultBadgeCatalog covers the standing campaign season.
func DefaultBadgeCatalog() BadgeCatalog {
	return BadgeCatalog{
		"300 Burpee Challenge":  "Burpee Beast",
		"100 Mile Month":        "Century Club",
		"Ruck the Winter":       "Winter Warrior",
		"Max Pull-Up Challenge": "Bar Breaker",
		"Murph Prep":            "Murph Ready",
	}
}
