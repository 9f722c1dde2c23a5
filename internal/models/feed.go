package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeedSource string

const (
	FeedSourceURL  FeedSource = "url"
	FeedSourceSFTP FeedSource = "sftp"
)

// SupplierFeed is a registered inventory feed re-imported on a schedule.
// Mapping holds the column-to-field mapping used for ad hoc imports too.
type SupplierFeed struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SellerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"seller_id"`
	Source   FeedSource `gorm:"size:10;not null" json:"source"`

	URL string `gorm:"size:1024" json:"url,omitempty"`

	SFTPHost     string `gorm:"size:255" json:"sftp_host,omitempty"`
	SFTPUser     string `gorm:"size:100" json:"sftp_user,omitempty"`
	SFTPPassword string `gorm:"size:255" json:"-"`
	SFTPPath     string `gorm:"size:1024" json:"sftp_path,omitempty"`

	Mapping   datatypes.JSON `gorm:"type:jsonb;not null" json:"mapping"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	LastRunAt *time.Time     `json:"last_run_at,omitempty"`
	LastError string         `gorm:"size:1024" json:"last_error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Seller    User           `gorm:"foreignKey:SellerID" json:"-"`
}

func (f *SupplierFeed) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
