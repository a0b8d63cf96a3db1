package entities

import "time"

// PendingUpload is the upload ledger row: an asset uploaded before any
// owning record exists. Rows are immutable until deleted.
type PendingUpload struct {
	ID                string    `gorm:"type:varchar(40);primaryKey"`
	UserID            string    `gorm:"type:varchar(64);index;not null"`
	AssetURL          string    `gorm:"type:varchar(1024);index;not null"`
	StorageIdentifier string    `gorm:"type:varchar(1024);not null"`
	ResourceType      string    `gorm:"type:varchar(16);not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	ExpiresAt         time.Time `gorm:"index;not null"`
}

func (PendingUpload) TableName() string {
	return "pending_uploads"
}
