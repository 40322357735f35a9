package models

import (
	"strings"
	"time"
)

// User is one row in the referral/loyalty ledger. UserID is the Telegram
// id and is immutable once the row exists.
type User struct {
	UserID         int64   `gorm:"primaryKey;autoIncrement:false"`
	Username       string  `gorm:"size:255;index"`
	FirstName      string  `gorm:"size:255"`
	ReferrerID     *int64  `gorm:"index"`
	ReferralsCount int     `gorm:"not null;default:0"`
	Discount       float64 `gorm:"not null;default:0"`
	Coins          int     `gorm:"not null;default:0"`
	Rewards        string  `gorm:"not null;default:''"`
	Level          int     `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RewardList splits the stored comma-joined rewards string into labels,
// preserving grant order and duplicates.
func (u *User) RewardList() []string {
	if u.Rewards == "" {
		return nil
	}
	parts := strings.Split(u.Rewards, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}

// AppendReward adds a label to the stored rewards string.
func (u *User) AppendReward(label string) {
	if u.Rewards == "" {
		u.Rewards = label
		return
	}
	u.Rewards = u.Rewards + ", " + label
}
