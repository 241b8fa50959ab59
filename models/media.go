package models

import "time"

const (
	MediaTypeImage    = "image"
	MediaTypeAudio    = "audio"
	MediaTypeVideo    = "video"
	MediaTypeDocument = "document"
)

type MediaFile struct {
	Media_ID     int       `json:"id" goqu:"skipinsert"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Type         string    `json:"type"`
	Size         int64     `json:"size"`
	Folder       *string   `json:"folder"`
	Storage_Path *string   `json:"storagePath"`
	Uploaded_At  time.Time `json:"uploadedAt" goqu:"skipinsert,skipupdate"`
}
