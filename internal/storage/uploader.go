package storage

import (
	"context"
	"errors"
)

// Uploader define la interfaz del blob store de imagenes. Recibe la imagen
// como data URI o base64 crudo y devuelve una URL publica estable.
type Uploader interface {
	Upload(ctx context.Context, image string) (string, error)
}

type disabledUploader struct {
	reason string
}

func NewDisabledUploader(reason string) Uploader {
	return &disabledUploader{reason: reason}
}

func (u *disabledUploader) Upload(_ context.Context, _ string) (string, error) {
	if u.reason == "" {
		return "", errors.New("uploader disabled")
	}
	return "", errors.New(u.reason)
}
