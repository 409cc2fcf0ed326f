// Package visits persists the visited and wishlist collections in the local
// key-value cache.
//
// Each collection is stored under its own key as a JSON object mapping
// location id to entry, written in collection order. Reading also accepts the
// legacy format, a JSON array of location ids, and upgrades it to minimal
// entries. Any other top-level shape is reported as common.ErrMalformedCache;
// individual entries that fail to decode are skipped.
package visits
