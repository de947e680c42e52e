package models

import "time"

// Payout statuses.
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
	PayoutStatusPaid       = "paid"
)

// InstructorPayout records the instructor's revenue share for one paid
// transaction. The unique index on TransactionID enforces at most one
// payout per transaction at the schema level.
type InstructorPayout struct {
	ID            uint       `gorm:"primaryKey" json:"payout_id"`
	InstructorID  uint       `gorm:"index;not null" json:"instructor_id"`
	CourseID      uint       `gorm:"not null" json:"course_id"`
	TransactionID uint       `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Status        string     `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt     time.Time  `json:"requested_at"`
	PaidAt        *time.Time `json:"paid_at"`

	Instructor  User        `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"-"`
	Course      Course      `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
}

func (InstructorPayout) TableName() string {
	return "instructor_payouts"
}
