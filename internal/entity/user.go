package entity

// User is a read-only directory entry. Instances never change once stored.
type User struct {
	ID    string
	Email string
}
