package service

import "errors"

var (
	// ErrInvalidRank is returned when a rank outside 1..3 is assigned.
	ErrInvalidRank = errors.New("rank must be 1, 2 or 3")
	// ErrUnknownDish is returned when an operation names a dish missing from the catalog.
	ErrUnknownDish = errors.New("dish not in catalog")
	// ErrEmptyImage is returned when a custom image URL is blank.
	ErrEmptyImage = errors.New("image url is empty")
)
