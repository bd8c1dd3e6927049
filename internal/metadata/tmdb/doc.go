// Package tmdb provides the minimal TMDB API client used to verify film
// titles.
//
// It authenticates requests with an API key and exposes movie search with an
// optional release-year filter plus movie detail retrieval. Failures carry
// services markers: a rejected key is a configuration error, rate limiting and
// 5xx responses are transient, and anything else is an external-service error.
package tmdb
