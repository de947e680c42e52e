package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponUsable(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	two := 2

	cases := []struct {
		name   string
		coupon Coupon
		want   bool
	}{
		{"active no limits", Coupon{IsActive: true}, true},
		{"inactive", Coupon{IsActive: false}, false},
		{"not yet expired", Coupon{IsActive: true, ExpiresAt: &future}, true},
		{"expired", Coupon{IsActive: true, ExpiresAt: &past}, false},
		{"uses remaining", Coupon{IsActive: true, MaxUses: &two, UsedCount: 1}, true},
		{"uses exhausted", Coupon{IsActive: true, MaxUses: &two, UsedCount: 2}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.coupon.Usable(now))
		})
	}
}
