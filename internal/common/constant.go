package common

// Cache keys. Each logical collection owns one key in the local durable cache.
const (
	VisitedCacheKey    = "visits-cache"
	WishlistCacheKey   = "wishlist-cache"
	OnboardingCacheKey = "has-seen-onboarding"
	SessionCacheKey    = "session-token"
)
