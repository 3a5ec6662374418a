// Package report turns a finished run into what the user sees: a live
// progress line while jobs complete, and a localized bill with the token
// usage, the failed cell count and the output location.
package report
