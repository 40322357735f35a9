package models

import (
	"time"
)

// Purchase is an insert-only audit row. ReferrerID is the buyer's
// referrer at the time of purchase, denormalized so later user deletions
// do not rewrite history.
type Purchase struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     int64  `gorm:"not null;index"`
	ReferrerID *int64 `gorm:"index"`
	Amount     int    `gorm:"not null"`
	CreatedAt  time.Time
}
