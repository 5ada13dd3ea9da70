package domain

import "errors"

var (
	// ErrListNotFound is returned when a shared list id is unknown or expired.
	ErrListNotFound = errors.New("shopping list not found")
	// ErrCatalogUnavailable means no catalog store could be loaded and no
	// cached snapshot exists.
	ErrCatalogUnavailable = errors.New("product catalog unavailable")
)
