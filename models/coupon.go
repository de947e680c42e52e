package models

import "time"

// Coupon is keyed by its upper-cased code. A coupon is usable when it is
// active, not expired and has uses remaining; used_count is only ever
// bumped through a conditional UPDATE so the max_uses cap holds under
// concurrent checkouts.
type Coupon struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	Code       string     `gorm:"size:50;unique;not null" json:"code"`
	PercentOff int        `gorm:"not null" json:"percent_off"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at"`
	MaxUses    *int       `json:"max_uses"`
	UsedCount  int        `gorm:"default:0" json:"used_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Usable reports whether the coupon can be redeemed at instant now.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return false
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return false
	}
	return true
}
