// Package translation sends a single segment to a remote completion endpoint
// and checks the reply against the target language. It supports any
// OpenAI-compatible endpoint (DeepSeek by default) and Gemini, optionally
// behind a circuit breaker.
package translation
