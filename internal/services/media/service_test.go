package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

type fakeStorage struct {
	objects    map[string][]byte
	failPutAt  int
	putCalls   int
	bucketErr  error
	presignErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte), failPutAt: -1}
}

func (f *fakeStorage) EnsureBucket(_ context.Context) error {
	return f.bucketErr
}

func (f *fakeStorage) PutImage(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	f.putCalls++
	if f.failPutAt >= 0 && f.putCalls > f.failPutAt {
		return errors.New("storage unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://media.test/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func newTestService(storage *fakeStorage) *Service {
	return NewService(storage, 5, 10, []string{"image/jpeg", "image/png", "image/webp", "image/gif"}, 5*time.Minute)
}

func jpegUpload(name, content string) Upload {
	return Upload{
		FileName:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Body:        strings.NewReader(content),
	}
}

func TestUploadImages(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	uploads := []Upload{
		jpegUpload("couch.jpg", "front"),
		jpegUpload("couch-side.jpg", "side"),
	}

	images, err := svc.UploadImages(context.Background(), "owner-1", uploads)
	if err != nil {
		t.Fatalf("upload images: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("unexpected image count: got %d want 2", len(images))
	}
	for _, image := range images {
		if !strings.HasPrefix(image.Key, "items/owner-1/") {
			t.Fatalf("object key missing owner prefix: %s", image.Key)
		}
		if !strings.HasSuffix(image.Key, ".jpg") {
			t.Fatalf("object key lost the extension: %s", image.Key)
		}
		if image.URL != "https://media.test/"+image.Key {
			t.Fatalf("unexpected signed url: %s", image.URL)
		}
		if _, ok := storage.objects[image.Key]; !ok {
			t.Fatalf("object %s was not stored", image.Key)
		}
	}
}

func TestUploadImagesRejectsBadBatches(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		uploads []Upload
		wantErr error
	}{
		{
			name:    "missing owner",
			ownerID: "  ",
			uploads: []Upload{jpegUpload("a.jpg", "x")},
			wantErr: ErrValidation,
		},
		{
			name:    "empty batch",
			ownerID: "owner-1",
			uploads: nil,
			wantErr: ErrValidation,
		},
		{
			name:    "too many files",
			ownerID: "owner-1",
			uploads: []Upload{
				jpegUpload("1.jpg", "x"), jpegUpload("2.jpg", "x"), jpegUpload("3.jpg", "x"),
				jpegUpload("4.jpg", "x"), jpegUpload("5.jpg", "x"), jpegUpload("6.jpg", "x"),
			},
			wantErr: ErrTooManyFiles,
		},
		{
			name:    "oversized file",
			ownerID: "owner-1",
			uploads: []Upload{{FileName: "big.jpg", ContentType: "image/jpeg", Size: 11 << 20, Body: strings.NewReader("x")}},
			wantErr: ErrFileTooLarge,
		},
		{
			name:    "unsupported type",
			ownerID: "owner-1",
			uploads: []Upload{{FileName: "movie.mp4", ContentType: "video/mp4", Size: 4, Body: strings.NewReader("mp4!")}},
			wantErr: ErrBadFileType,
		},
		{
			name:    "missing body",
			ownerID: "owner-1",
			uploads: []Upload{{FileName: "a.jpg", ContentType: "image/jpeg", Size: 4}},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newFakeStorage()
			svc := newTestService(storage)

			if _, err := svc.UploadImages(context.Background(), tt.ownerID, tt.uploads); !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got %v want %v", err, tt.wantErr)
			}
			if len(storage.objects) != 0 {
				t.Fatalf("rejected batch should store nothing, found %d objects", len(storage.objects))
			}
		})
	}
}

func TestUploadImagesRollsBackOnStorageFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.failPutAt = 1
	svc := newTestService(storage)

	uploads := []Upload{
		jpegUpload("1.jpg", "x"),
		jpegUpload("2.jpg", "x"),
	}

	if _, err := svc.UploadImages(context.Background(), "owner-1", uploads); err == nil {
		t.Fatalf("expected put failure to surface")
	}
	if len(storage.objects) != 0 {
		t.Fatalf("partial uploads should be rolled back, found %d objects", len(storage.objects))
	}
}

func TestUploadImagesRollsBackOnPresignFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.presignErr = fmt.Errorf("presign unavailable")
	svc := newTestService(storage)

	if _, err := svc.UploadImages(context.Background(), "owner-1", []Upload{jpegUpload("1.jpg", "x")}); err == nil {
		t.Fatalf("expected presign failure to surface")
	}
	if len(storage.objects) != 0 {
		t.Fatalf("stored object should be rolled back, found %d objects", len(storage.objects))
	}
}

func TestSignImageURL(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	url, err := svc.SignImageURL(context.Background(), "items/owner-1/abc.jpg")
	if err != nil {
		t.Fatalf("sign image url: %v", err)
	}
	if url != "https://media.test/items/owner-1/abc.jpg" {
		t.Fatalf("unexpected signed url: %s", url)
	}

	if _, err := svc.SignImageURL(context.Background(), "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty key, got %v", err)
	}
}
