// Package langs holds the registry of target languages a run translates
// into, and the script-family check used to catch output that drifted into
// the wrong language.
package langs
