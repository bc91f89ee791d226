package domain

import "time"

type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// Email is the slice of a message the sidebar cares about: who sent it,
// whether it has been read, and which tags it carries.
type Email struct {
	ID        string
	AccountID string
	From      Address
	Subject   string
	Date      time.Time
	IsRead    bool
	TagIDs    []int64
}

func (e *Email) HasTag(id int64) bool {
	for _, t := range e.TagIDs {
		if t == id {
			return true
		}
	}
	return false
}
