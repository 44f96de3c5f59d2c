// Package profile implements the file-backed collaborators of the
// reconciliation engine: the named profile store, the permanent set, the
// current-profile marker, and the backup sink.
//
// Profiles, the permanent file, and backup snapshots share one schema: a
// JSON array of stored triggers. Remote identity and account fields never
// appear in any of these files. The marker is a single trimmed text value;
// empty or absent means no profile is recorded.
//
// The stores assume a single local actor and perform no locking.
package profile
