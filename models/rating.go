package models

import "time"

type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"rating_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_rating_course_student" json:"course_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_rating_course_student" json:"student_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Review    *string   `json:"review"`
	CreatedAt time.Time `json:"created_at"`

	Course  Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Student User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}
