package contractstest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/exceptions"
	"sort"
	"sync"
)

type DocumentStore struct {
	mu        sync.Mutex
	documents map[string]models.Document
	Errors    map[string]error
}

func NewDocumentStore(documents ...models.Document) *DocumentStore {
	store := &DocumentStore{documents: map[string]models.Document{}, Errors: map[string]error{}}
	for _, doc := range documents {
		store.documents[doc.ID] = doc
	}
	return store
}

func (s *DocumentStore) FindByID(ctx context.Context, documentID string) (*models.Document, error) {
	if err := s.Errors["FindByID"]; err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (s *DocumentStore) FindByPatientID(ctx context.Context, patientID string) ([]models.Document, error) {
	if err := s.Errors["FindByPatientID"]; err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]models.Document, 0)
	for _, doc := range s.documents {
		if doc.PatientID == patientID {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UploadDate.After(result[j].UploadDate) })
	return result, nil
}

func (s *DocumentStore) Create(ctx context.Context, document *models.Document) error {
	if err := s.Errors["Create"]; err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[document.ID] = *document
	return nil
}

func (s *DocumentStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}

// BlobStore keeps objects in memory and counts reads.
type BlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	public  map[string]bool
	Reads   int
	Errors  map[string]error
}

func NewBlobStore() *BlobStore {
	return &BlobStore{
		objects: map[string][]byte{},
		types:   map[string]string{},
		public:  map[string]bool{},
		Errors:  map[string]error{},
	}
}

func (b *BlobStore) Seed(path string, content []byte, contentType string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[path] = content
	b.types[path] = contentType
}

func (b *BlobStore) Put(ctx context.Context, path string, content io.Reader, size int64, contentType string) error {
	if err := b.Errors["Put"]; err != nil {
		return exceptions.ErrMinioCreateObject(err, "test")
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, "test")
	}
	b.Seed(path, data, contentType)
	return nil
}

func (b *BlobStore) Get(ctx context.Context, path string) (io.ReadCloser, *models.BlobInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Reads++
	if err := b.Errors["Get"]; err != nil {
		return nil, nil, exceptions.ErrMinioGetObject(err, "test")
	}
	data, ok := b.objects[path]
	if !ok {
		return nil, nil, exceptions.ErrMinioGetObject(errors.New("NoSuchKey"), "test")
	}
	return io.NopCloser(bytes.NewReader(data)), &models.BlobInfo{Size: int64(len(data)), ContentType: b.types[path]}, nil
}

func (b *BlobStore) MakePublic(ctx context.Context, path string) (string, error) {
	if err := b.Errors["MakePublic"]; err != nil {
		return "", exceptions.ErrMinioSetPolicy(err, "test")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.public[path] = true
	return "http://blob.test/records/" + path, nil
}

func (b *BlobStore) Remove(ctx context.Context, path string) error {
	if err := b.Errors["Remove"]; err != nil {
		return exceptions.ErrMinioRemoveObject(err, "test")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, path)
	delete(b.types, path)
	delete(b.public, path)
	return nil
}

func (b *BlobStore) Exists(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[path]
	return ok
}

func (b *BlobStore) IsPublic(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.public[path]
}

func (b *BlobStore) ReadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Reads
}
