package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioStorage struct {
	MinioClient     *minio.Client
	BucketName      string
	PublicURLScheme string
	Log             *zap.Logger
	// bucket policy updates are read-modify-write
	policyMu sync.Mutex
}

func NewMinioStorage(minioClient *minio.Client, bucketName, publicURLScheme string, logger *zap.Logger) contracts.BlobStorage {
	return &minioStorage{
		MinioClient:     minioClient,
		BucketName:      bucketName,
		PublicURLScheme: publicURLScheme,
		Log:             logger,
	}
}

func (m *minioStorage) Put(ctx context.Context, path string, content io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = constvars.BlobDefaultContentType
	}
	_, err := m.MinioClient.PutObject(ctx, m.BucketName, path, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, m.BucketName)
	}
	return nil
}

// Get stats the object before handing out the reader so a missing object
// fails here instead of half way through a response.
func (m *minioStorage) Get(ctx context.Context, path string) (io.ReadCloser, *models.BlobInfo, error) {
	object, err := m.MinioClient.GetObject(ctx, m.BucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, exceptions.ErrMinioGetObject(err, m.BucketName)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, nil, exceptions.ErrMinioGetObject(err, m.BucketName)
	}

	return object, &models.BlobInfo{
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		LastModified: stat.LastModified,
	}, nil
}

func (m *minioStorage) Remove(ctx context.Context, path string) error {
	if err := m.MinioClient.RemoveObject(ctx, m.BucketName, path, minio.RemoveObjectOptions{}); err != nil {
		return exceptions.ErrMinioRemoveObject(err, m.BucketName)
	}
	return nil
}

func (m *minioStorage) MakePublic(ctx context.Context, path string) (string, error) {
	m.policyMu.Lock()
	defer m.policyMu.Unlock()

	current, err := m.MinioClient.GetBucketPolicy(ctx, m.BucketName)
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchBucketPolicy" {
		return "", exceptions.ErrMinioSetPolicy(err, m.BucketName)
	}

	policy, err := addPublicReadResource(current, m.BucketName, path)
	if err != nil {
		return "", exceptions.ErrMinioSetPolicy(err, m.BucketName)
	}

	if policy != "" {
		if err := m.MinioClient.SetBucketPolicy(ctx, m.BucketName, policy); err != nil {
			return "", exceptions.ErrMinioSetPolicy(err, m.BucketName)
		}
	}

	return fmt.Sprintf(constvars.BlobPublicURLFormat, m.PublicURLScheme, m.MinioClient.EndpointURL().Host, m.BucketName, path), nil
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid       string      `json:"Sid,omitempty"`
	Effect    string      `json:"Effect"`
	Principal interface{} `json:"Principal,omitempty"`
	Action    []string    `json:"Action"`
	Resource  []string    `json:"Resource"`
}

var errMalformedPolicy = errors.New("bucket policy is not valid JSON")

// addPublicReadResource merges one object key into the anonymous read
// statement of an existing policy document. It returns "" when the key is
// already public.
func addPublicReadResource(current, bucketName, path string) (string, error) {
	policy := bucketPolicy{Version: "2012-10-17"}
	if current != "" {
		if err := json.Unmarshal([]byte(current), &policy); err != nil {
			return "", fmt.Errorf("%w: %v", errMalformedPolicy, err)
		}
	}

	resource := fmt.Sprintf("arn:aws:s3:::%s/%s", bucketName, path)
	for i := range policy.Statement {
		if policy.Statement[i].Sid != constvars.BlobPublicReadStatementID {
			continue
		}
		for _, existing := range policy.Statement[i].Resource {
			if existing == resource {
				return "", nil
			}
		}
		policy.Statement[i].Resource = append(policy.Statement[i].Resource, resource)
		return marshalPolicy(policy)
	}

	policy.Statement = append(policy.Statement, policyStatement{
		Sid:       constvars.BlobPublicReadStatementID,
		Effect:    "Allow",
		Principal: map[string]interface{}{"AWS": []string{"*"}},
		Action:    []string{"s3:GetObject"},
		Resource:  []string{resource},
	})
	return marshalPolicy(policy)
}

func marshalPolicy(policy bucketPolicy) (string, error) {
	raw, err := json.Marshal(policy)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
