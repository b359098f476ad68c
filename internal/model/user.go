package model

const (
	RoleAdmin = "admin"

	PlanFree = "free"
	PlanPaid = "paid"
)

// UserFilter narrows a user count. Zero values match everything.
type UserFilter struct {
	Role string
	Type string
}

// Dashboard is the flat set of platform counters.
type Dashboard struct {
	Users               int64 `json:"users"`
	Admins              int64 `json:"admins"`
	Frees               int64 `json:"frees"`
	Paids               int64 `json:"paids"`
	Courses             int64 `json:"courses"`
	VideoAndTextCourses int64 `json:"videoAndTextCourses"`
	TextAndImageCourses int64 `json:"textAndImageCourses"`
	CompletedCourses    int64 `json:"completedCourses"`
}
