package models

import "time"

// Transaction statuses. A transaction is immutable once written except
// for the paid -> refunded transition.
const (
	TransactionStatusPaid     = "paid"
	TransactionStatusRefunded = "refunded"
)

// Transaction records one checkout line: the price snapshot, the
// discount applied and what was actually paid.
type Transaction struct {
	ID             uint      `gorm:"primaryKey" json:"transaction_id"`
	StudentID      uint      `gorm:"index;not null" json:"student_id"`
	CourseID       uint      `gorm:"index;not null" json:"course_id"`
	OriginalPrice  float64   `gorm:"not null" json:"original_price"`
	DiscountAmount float64   `gorm:"default:0" json:"discount_amount"`
	AmountPaid     float64   `gorm:"not null" json:"amount_paid"`
	CouponCode     *string   `gorm:"size:50" json:"coupon_code"`
	PaymentMethod  string    `gorm:"size:50;default:'card'" json:"payment_method"`
	PaymentRef     string    `gorm:"size:64" json:"payment_ref"`
	Status         string    `gorm:"size:20;default:'paid'" json:"status"`
	CreatedAt      time.Time `json:"created_at"`

	Student User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
