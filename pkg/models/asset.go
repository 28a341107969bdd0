package models

import "time"

type AssetStatus string

const (
	AssetStatusUploading AssetStatus = "uploading"
	AssetStatusReady     AssetStatus = "ready"
	AssetStatusError     AssetStatus = "error"
)

type AssetType string

const (
	AssetTypeImage    AssetType = "image"
	AssetTypeVideo    AssetType = "video"
	AssetTypeDocument AssetType = "document"
	AssetTypeCSV      AssetType = "csv"
)

// Asset is a file attached to a campaign. Its lifecycle is
// uploading -> ready, or uploading -> error when the upload fails.
type Asset struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      AssetType   `json:"type"`
	Size      int64       `json:"size"`
	Status    AssetStatus `json:"status"`
	Progress  int         `json:"progress"`
	URL       string      `json:"url"`
	CreatedAt time.Time   `json:"created_at"`
}

// Clone returns a copy safe to hand out across goroutine boundaries.
func (a *Asset) Clone() *Asset {
	c := *a
	return &c
}
