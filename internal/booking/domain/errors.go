package domain

import "errors"

var (
	ErrNotFound       = errors.New("booking_not_found")
	ErrRoomNotFound   = errors.New("room_not_found")
	ErrInvalidRequest = errors.New("invalid_booking_request")
)
