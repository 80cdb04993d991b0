package model

// Role mirrors the roles issued by the platform's external identity
// provider. This service never creates accounts; it only gates routes.
type Role string

const (
	Student  Role = "student"
	Lecturer Role = "lecturer"
	Admin    Role = "admin"
)
