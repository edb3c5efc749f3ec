package release_stale_bookings

import "errors"

// ErrInternal возвращается, когда не удалось получить список просроченных бронирований
var ErrInternal = errors.New("release_stale_bookings: internal error")
