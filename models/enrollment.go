package models

import "time"

// Enrollment binds a student to a course. The (student, course) unique
// index is the de-duplication mechanism for self-enroll, admin enroll
// and checkout alike.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"enrollment_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"student_id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"course_id"`
	Progress   float64   `gorm:"default:0" json:"progress"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`

	Student User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
