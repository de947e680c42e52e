package models

import "time"

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"wishlist_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_wishlist_student_course" json:"student_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_wishlist_student_course" json:"course_id"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`

	Student User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

func (WishlistItem) TableName() string {
	return "wishlist"
}
