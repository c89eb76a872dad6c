package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"dreamvisualizer/internal/domain"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "images/a.png", want: "images/a.png"},
		{in: "/images//a.png", want: "images/a.png"},
		{in: "./audio/x.wav", want: "audio/x.wav"},
		{in: `videos\final.mp4`, want: "videos/final.mp4"},
		{in: "../etc/passwd", wantErr: true},
		{in: "images/../../x", wantErr: true},
		{in: "  ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := sanitizeKey(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("sanitizeKey(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("sanitizeKey(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLocalURLAndKeyFromURL(t *testing.T) {
	if got := LocalURL("images/sd15_scene_1.png"); got != "/generated/sd15_scene_1.png" {
		t.Fatalf("LocalURL() = %q", got)
	}
	if got := LocalURL("audio/a.wav"); got != "/audio-files/a.wav" {
		t.Fatalf("LocalURL() = %q", got)
	}
	for _, in := range []string{"/generated/a.png", "http://host:8000/generated/a.png?x=1", "a.png"} {
		key, ok := KeyFromURL(PrefixImages, in)
		if !ok || key != "images/a.png" {
			t.Fatalf("KeyFromURL(%q) = %q, %v", in, key, ok)
		}
	}
	if _, ok := KeyFromURL(PrefixImages, ""); ok {
		t.Fatalf("expected empty url to be rejected")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	key, err := store.Write(ctx, "/images/a.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if key != "images/a.png" {
		t.Fatalf("Write() key = %q", key)
	}
	ok, err := store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists() = %v, %v", ok, err)
	}
	data, err := store.Read(ctx, key)
	if err != nil || string(data) != "png" {
		t.Fatalf("Read() = %q, %v", data, err)
	}
	if got := store.URL(key); got != "/generated/a.png" {
		t.Fatalf("URL() = %q", got)
	}

	if ok, _ := store.Exists(ctx, "images/missing.png"); ok {
		t.Fatalf("Exists() true for missing file")
	}
	if _, err := store.Read(ctx, "images/missing.png"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read() error = %v, want ErrNotFound", err)
	}
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, _ := io.ReadAll(in.Body)
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	store := newS3Store(fake, S3Options{Bucket: "dreams", PublicURL: "https://cdn.example.com/"})

	key, err := store.Write(ctx, "exports/book.pdf", []byte("%PDF"), "application/pdf")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := store.URL(key); got != "https://cdn.example.com/exports/book.pdf" {
		t.Fatalf("URL() = %q", got)
	}
	if ok, _ := store.Exists(ctx, key); !ok {
		t.Fatalf("Exists() = false")
	}
	if ok, _ := store.Exists(ctx, "exports/none.pdf"); ok {
		t.Fatalf("Exists() = true for missing key")
	}
	if _, err := store.Read(ctx, "exports/none.pdf"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read() error = %v", err)
	}

	local := newS3Store(fake, S3Options{Bucket: "dreams"})
	if got := local.URL("videos/v.mp4"); got != "/videos/v.mp4" {
		t.Fatalf("URL() without public base = %q", got)
	}
}
