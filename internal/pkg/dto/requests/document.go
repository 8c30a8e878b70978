package requests

import "io"

type UploadDocument struct {
	PatientID   string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}
