package models

import "time"

type Quiz struct {
	ID          uint      `gorm:"primaryKey" json:"quiz_id"`
	CourseID    uint      `gorm:"index;not null" json:"course_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Question options are stored as a JSON array of strings; CorrectIndex
// points into that array.
type Question struct {
	ID           uint   `gorm:"primaryKey" json:"question_id"`
	QuizID       uint   `gorm:"index;not null" json:"quiz_id"`
	Prompt       string `gorm:"not null" json:"prompt"`
	Options      string `gorm:"type:text;not null" json:"options"`
	CorrectIndex int    `gorm:"not null" json:"correct_index"`

	Quiz Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
}

type QuizAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"attempt_id"`
	QuizID      uint      `gorm:"index;not null" json:"quiz_id"`
	StudentID   uint      `gorm:"index;not null" json:"student_id"`
	Score       float64   `gorm:"not null" json:"score"`
	CompletedAt time.Time `gorm:"autoCreateTime" json:"completed_at"`

	Quiz    Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	Student User `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}
