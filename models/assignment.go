package models

import "time"

type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"assignment_id"`
	CourseID    uint       `gorm:"index;not null" json:"course_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	CreatedAt   time.Time  `json:"created_at"`

	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Submission is one per (assignment, student); re-submitting replaces
// the previous answer.
type Submission struct {
	ID           uint      `gorm:"primaryKey" json:"submission_id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"assignment_id"`
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"student_id"`
	FileURL      *string   `json:"file_url"`
	TextAnswer   *string   `json:"text_answer"`
	Grade        *float64  `json:"grade"`
	Feedback     *string   `json:"feedback"`
	SubmittedAt  time.Time `gorm:"autoCreateTime" json:"submitted_at"`

	Assignment Assignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
	Student    User       `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}
