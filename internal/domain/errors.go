package domain

import "errors"

var (
	// ErrCacheMiss is returned by cache repositories when no row exists
	// for the given key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrRecipeNotFound means the upstream provider definitively does not
	// know the requested recipe. Not retried.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrUpstream means the provider returned a definitive failure, such
	// as a rejected query or a malformed response.
	ErrUpstream = errors.New("upstream provider error")

	// ErrUpstreamUnavailable means the provider failed transiently
	// (timeout, 5xx, rate limit) and the caller may retry.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
)
