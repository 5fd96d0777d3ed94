package services

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrPackageNotFound      = errors.New("package not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrArtistNotFound       = errors.New("artist not found")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrMissingUserID        = errors.New("missing user ID in webhook data")
)
