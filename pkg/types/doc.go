// Package types defines the match state, log entries and action taxonomy of
// the courtside scorer, the store interfaces the scoring session consumes,
// and the standard errors.
//
// See docs/ARCHITECTURE § Match State and § Action Log.
package types
