package redis

import (
	"ruralride/internal/middleware"
	"ruralride/internal/service"
)

// Ensure concrete types implement interfaces.
var (
	_ service.BookingCache        = (*BookingCache)(nil)
	_ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
)
