package models

import "time"

// CartItem is transient: checkout consumes every row for the student.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"cart_item_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_cart_student_course" json:"student_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_cart_student_course" json:"course_id"`
	Qty       int       `gorm:"default:1" json:"qty"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`

	Student User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
