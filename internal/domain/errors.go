package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrSerialize        = errors.New("document serialization failed")
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrEmptySheet       = errors.New("worksheet is empty")
	ErrInvalidInput     = errors.New("invalid input")
)
