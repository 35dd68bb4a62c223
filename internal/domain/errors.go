package domain

import "errors"

var (
	// ErrInvalidRequest signals a request that fails domain validation.
	ErrInvalidRequest = errors.New("invalid retrieval request")
	// ErrFilterSyntax signals an unparseable filter expression.
	ErrFilterSyntax = errors.New("invalid filter expression")
	// ErrDataSourceNotSupported signals a data source the service cannot route.
	ErrDataSourceNotSupported = errors.New("data source not supported")
	// ErrResourceNotFound signals a missing indexed resource.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
