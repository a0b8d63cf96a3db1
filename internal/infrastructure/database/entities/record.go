package entities

import "time"

// Record is the owning record: a saved curator entry whose gallery claims
// uploaded assets. Only the media surface of the record lives here; titles,
// descriptions and the rest of the form belong to the record service.
type Record struct {
	ID          string      `gorm:"type:varchar(40);primaryKey"`
	OwnerID     string      `gorm:"type:varchar(64);index;not null"`
	Gallery     StringSlice `gorm:"type:jsonb;not null"`
	Thumbnail   *string     `gorm:"type:varchar(1024)"`
	Captions    StringMap   `gorm:"type:jsonb"`
	Summaries   StringMap   `gorm:"type:jsonb"`
	Transcripts StringMap   `gorm:"type:jsonb"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "records"
}
