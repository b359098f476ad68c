package model

import (
	"encoding/json"
	"time"
)

const (
	CourseTypeVideoAndText = "video & text course"
	CourseTypeTextAndImage = "text & image course"

	// MaxProgress marks a course as fully done.
	MaxProgress = 100
)

// Course is a generated course owned by a user. Content is opaque to the
// backend and stored as-is.
type Course struct {
	ID        string          `json:"_id"`
	User      string          `json:"user"`
	Content   json.RawMessage `json:"content"`
	Type      string          `json:"type"`
	MainTopic string          `json:"mainTopic"`
	Photo     *string         `json:"photo"`
	Progress  int             `json:"progress"`
	Completed bool            `json:"completed"`
	Date      time.Time       `json:"date"`
	End       *time.Time      `json:"end,omitempty"`
}

// CourseFilter narrows a course count. Zero values match everything.
type CourseFilter struct {
	Type      string
	Completed *bool
}
