package model

import (
	"encoding/json"
	"time"
)

// Resume is a user's resume document, unique per UID.
type Resume struct {
	ID         string          `json:"_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	UID        string          `json:"uid"`
	ResumeData json.RawMessage `json:"resumeData"`
	CreatedAt  time.Time       `json:"createdAt"`
}
