// Package storage keeps uploaded files in a Google Cloud Storage bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com"

// ErrObjectNotFound is returned when a requested object does not exist
var ErrObjectNotFound = errors.New("object not found")

// StorageClient uploads and downloads objects
type StorageClient interface {
	UploadFile(ctx context.Context, objectName, contentType string, fileData io.Reader) (string, error)
	DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error)
	ObjectName(link string) (string, bool)
}

// CloudStorageClient is the StorageClient of one bucket
type CloudStorageClient struct {
	BucketName string
	Client     *storage.Client
}

// NewCloudStorageClient creates a client for bucketName using application default credentials
func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	if bucketName == "" {
		return nil, errors.New("bucket name is empty")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %w", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Client:     client,
	}, nil
}

// UploadFile writes fileData to objectName and returns the object's public link
func (c *CloudStorageClient) UploadFile(ctx context.Context, objectName, contentType string, fileData io.Reader) (string, error) {
	wc := c.Client.Bucket(c.BucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, fileData); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to write data to object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close object writer: %w", err)
	}
	return c.ObjectURL(objectName), nil
}

// DownloadFile opens objectName for reading and reports its size
func (c *CloudStorageClient) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	reader, err := c.Client.Bucket(c.BucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, 0, ErrObjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to open object reader: %w", err)
	}
	return reader, reader.Attrs.Size, nil
}

// ObjectURL is the public link of objectName
func (c *CloudStorageClient) ObjectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", publicHost, c.BucketName, objectName)
}

// ObjectName reverses ObjectURL. It reports false for links outside the bucket.
func (c *CloudStorageClient) ObjectName(link string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", publicHost, c.BucketName)
	if !strings.HasPrefix(link, prefix) {
		return "", false
	}
	name, err := url.PathUnescape(strings.TrimPrefix(link, prefix))
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// Close releases the underlying client
func (c *CloudStorageClient) Close() error {
	return c.Client.Close()
}
