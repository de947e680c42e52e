package models

import "time"

// Message is direct user-to-user mail, optionally scoped to a course.
// Course scope is what lets a student message their instructor.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"message_id"`
	SenderID   uint      `gorm:"index;not null" json:"sender_id"`
	ReceiverID uint      `gorm:"index;not null" json:"receiver_id"`
	CourseID   *uint     `json:"course_id"`
	Content    string    `gorm:"not null" json:"content"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	SentAt     time.Time `gorm:"autoCreateTime" json:"sent_at"`

	Sender   User    `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Receiver User    `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
	Course   *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
