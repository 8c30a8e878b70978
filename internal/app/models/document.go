package models

import "time"

type Document struct {
	ID          string    `bson:"_id"`
	PatientID   string    `bson:"patientId"`
	StoragePath string    `bson:"storagePath"`
	PublicURL   string    `bson:"publicUrl"`
	FileName    string    `bson:"fileName"`
	ContentType string    `bson:"contentType"`
	Size        int64     `bson:"size"`
	UploadDate  time.Time `bson:"uploadDate"`
}

type BlobInfo struct {
	Size         int64
	ContentType  string
	LastModified time.Time
}
