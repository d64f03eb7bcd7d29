package storage

import (
	"context"
	"fmt"
	"image"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

type BlobStorage interface {
	GetImage(ctx context.Context, containerName, blobName string) (image.Image, error)
	PutImage(ctx context.Context, containerName, blobName string, data []byte, contentType string) error
}

type azureStorage struct {
	client *azblob.Client
}

func NewAzureStorage(accountName string, accountKey string) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create azure client: %w", err)
	}

	return &azureStorage{client: client}, nil
}

func (s *azureStorage) GetImage(ctx context.Context, containerName, blobName string) (image.Image, error) {
	// Download blob to stream
	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	img, _, err := Decode(retryReader)
	return img, err
}

func (s *azureStorage) PutImage(ctx context.Context, containerName, blobName string, data []byte, contentType string) error {
	_, err := s.client.UploadBuffer(ctx, containerName, blobName, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}
