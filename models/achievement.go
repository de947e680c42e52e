package models

import "time"

type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"achievement_id"`
	StudentID   uint      `gorm:"index;not null" json:"student_id"`
	CourseID    *uint     `json:"course_id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `json:"description"`
	EarnedAt    time.Time `gorm:"autoCreateTime" json:"earned_at"`

	Student User    `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course  *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
