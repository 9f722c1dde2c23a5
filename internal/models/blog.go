package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogPost struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug          string         `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Excerpt       string         `gorm:"size:500;not null" json:"excerpt"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	FeaturedImage string         `gorm:"size:1024;not null" json:"featured_image"`
	Tags          datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	ReadTime      string         `gorm:"size:20;not null" json:"read_time"`
	AuthorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Author        User           `gorm:"foreignKey:AuthorID" json:"-"`
}

func (b *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
