package domain

import "errors"

var (
	ErrBadRequest      = errors.New("bad request")
	ErrPaymentRejected = errors.New("payment verification failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrGateway         = errors.New("payment gateway error")
	ErrUpload          = errors.New("upload failed")
	ErrPersistence     = errors.New("persistence failed")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
)
