package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
