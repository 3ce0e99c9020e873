// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Tokens are stored per account under the user cache directory as
// google-<account>.token files. The TokenProvider interface allows different
// token sources to be plugged in so callers are not tied to file storage.
package google
