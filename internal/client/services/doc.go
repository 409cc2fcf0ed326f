// Package services contains the application services of the wanderlog client.
//
// VisitManager owns the visited and wishlist collections. Every mutation is
// applied in memory, written through to the local cache and, when a user is
// signed in, scheduled as a debounced remote write. Loads happen once per
// distinct identity: remote first when a user is present, the local cache
// otherwise or on any remote failure.
//
// AuthService keeps the session token in the local cache and turns it into the
// user id VisitManager is keyed by.
package services
