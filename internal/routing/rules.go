// internal/routing/rules.go
//
// Route lists.
//
// Context
// -------
// Course prefixes and the two system-route lists are data, not logic.  The
// defaults below apply only when `routes.*` is absent from configuration;
// a configured list replaces its default wholesale.  Matching is exact and
// case-insensitive on one path segment.
package routing

import "strings"

// Rules holds the route lists consulted by Router.
type Rules struct {
	// CoursePrefixes are first path segments that route to the course area.
	CoursePrefixes []string `koanf:"course_prefixes"`

	// WebsiteSystem are last segments always served by the website
	// (store front pages: product, cart, checkout, …).
	WebsiteSystem []string `koanf:"website_system"`

	// GeneralSystem are last segments served by a funnel when one is
	// connected, else by the website (payment callbacks, confirmations).
	GeneralSystem []string `koanf:"general_system"`
}

// DefaultRules returns the built-in lists.
func DefaultRules() Rules {
	return Rules{
		CoursePrefixes: []string{"courses", "course", "members", "member-area", "learn"},
		WebsiteSystem: []string{
			"product", "products", "shop", "collections", "category", "categories",
			"cart", "checkout", "search", "about", "contact", "blog",
			"account", "login", "register", "wishlist",
		},
		GeneralSystem: []string{
			"payment-success", "payment-cancel", "payment-callback",
			"order-confirmation", "confirmation", "thank-you", "thankyou",
		},
	}
}

// WithDefaults fills any empty list from DefaultRules.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if len(r.CoursePrefixes) == 0 {
		r.CoursePrefixes = d.CoursePrefixes
	}
	if len(r.WebsiteSystem) == 0 {
		r.WebsiteSystem = d.WebsiteSystem
	}
	if len(r.GeneralSystem) == 0 {
		r.GeneralSystem = d.GeneralSystem
	}
	return r
}

type set map[string]struct{}

func newSet(items []string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[strings.ToLower(strings.Trim(it, "/ "))] = struct{}{}
	}
	return s
}

func (s set) has(seg string) bool {
	_, ok := s[strings.ToLower(seg)]
	return ok
}
