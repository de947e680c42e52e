package models

import "time"

// Course statuses. Only admins move a course between them.
const (
	CourseStatusPending  = "pending"
	CourseStatusApproved = "approved"
	CourseStatusRejected = "rejected"
)

// ValidCourseStatus reports whether status is a known course status.
func ValidCourseStatus(status string) bool {
	switch status {
	case CourseStatusPending, CourseStatusApproved, CourseStatusRejected:
		return true
	}
	return false
}

type Course struct {
	ID           uint      `gorm:"primaryKey" json:"course_id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `json:"description"`
	InstructorID uint      `gorm:"index;not null" json:"instructor_id"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Price        float64   `gorm:"default:0" json:"price"`
	Status       string    `gorm:"size:20;default:'pending'" json:"status"`
	IsPublic     bool      `gorm:"default:true" json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`

	Instructor User `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"-"`
}
