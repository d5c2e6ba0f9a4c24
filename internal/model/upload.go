package model

import "time"

// UploadRecord is a persisted survey file upload with processing audit data
type UploadRecord struct {
	ID               string             `json:"id" bson:"_id,omitempty"`
	UserID           string             `json:"userId" bson:"userId"`
	Filename         string             `json:"filename" bson:"filename"`
	Fingerprint      string             `json:"fingerprint" bson:"fingerprint"` // sha256 of the raw bytes
	SizeBytes        int                `json:"sizeBytes" bson:"sizeBytes"`
	RawData          []byte             `json:"-" bson:"rawData"` // original file, kept for reprocessing
	Delimiter        string             `json:"delimiter" bson:"delimiter"`
	LastMetadata     ProcessingMetadata `json:"lastMetadata" bson:"lastMetadata"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	LastProcessedAt  time.Time          `json:"lastProcessedAt" bson:"lastProcessedAt"`
}
