// Package trigger defines the HamAlert trigger model shared by the remote
// client, the file stores, and the reconciliation engine.
//
// A [Trigger] is the persisted shape: conditions, actions, comment, and
// optional options. A [Remote] is a trigger as returned by the HamAlert API,
// carrying the server-assigned identity and bookkeeping fields that are never
// written to profile or backup files.
package trigger
