package responses

import (
	"io"
	"time"
)

type Document struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	PublicURL   string    `json:"public_url"`
	UploadDate  time.Time `json:"upload_date"`
}

type DocumentContent struct {
	DocumentID  string
	FileName    string
	ContentType string
	Size        int64
	Reader      io.ReadCloser
}
