// Package models lists the models an OpenAI-compatible endpoint offers to
// the configured API key, grouped into chat models and the rest.
package models
