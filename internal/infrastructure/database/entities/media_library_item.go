package entities

import "time"

// MediaLibraryItem is the user-facing media library cache keyed by asset URL.
// Non-authoritative; refreshed best-effort after relocation.
type MediaLibraryItem struct {
	AssetURL     string    `gorm:"type:varchar(1024);primaryKey"`
	OwnerID      string    `gorm:"type:varchar(64);index;not null"`
	ResourceType string    `gorm:"type:varchar(16);not null"`
	Folder       string    `gorm:"type:varchar(512)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (MediaLibraryItem) TableName() string {
	return "media_library_items"
}
