package models

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleJudge UserRole = "judge"
)

// User is the authenticated actor. Judges are identified only by ID and Name.
type User struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}
