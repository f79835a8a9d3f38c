package model

import "time"

const DefaultProfilePicture = "https://img.freepik.com/free-vector/businessman-character-avatar-isolated_24877-60111.jpg"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:64;not null" json:"name"`
	Email          string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	ProfilePicture string    `gorm:"type:longtext" json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AuthorPreview is the projection of a user embedded in post and comment
// payloads.
type AuthorPreview struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
}

func (u *User) Preview() AuthorPreview {
	return AuthorPreview{
		ID:             u.ID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
	}
}
