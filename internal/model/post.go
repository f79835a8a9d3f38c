package model

import "time"

const DefaultThumbnail = "https://res.cloudinary.com/dizpv8zem/image/upload/v1749395540/blog_xsvkf1.jpg"

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:64;index" json:"category"`
	Thumbnail string    `gorm:"type:longtext" json:"thumbnail"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
