// Package services defines the provider interface and the Spotify implementation.
//
// The [Service] interface is a capability set: any provider implementing
// authenticate, profile, and the three playlist retrieval operations is
// substitutable, which keeps the CLI and the backup engine decoupled from
// Spotify specifics.
//
// [SpotifyService] walks the cursor-paginated collection endpoints, maps wire
// records into the typed entities of [models], and classifies playlist
// ownership against the authenticated user's id. Per-playlist track fetch
// failures degrade that playlist's track list to empty rather than aborting
// the whole listing.
//
// HTTP status handling at the fetch boundary: 429 yields a
// [shared.RateLimitError] carrying the Retry-After hint, 401 yields
// [shared.ErrTokenExpired] (the caller must re-authenticate), and any other
// status >= 400 yields a [shared.APIError] with status and body.
package services
