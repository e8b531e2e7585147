package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type memStore struct {
	objects []Object
}

func (m *memStore) Put(_ context.Context, obj Object) (*Result, error) {
	m.objects = append(m.objects, obj)
	return &Result{FileID: "f1", Name: obj.Name, URL: "https://cdn.example.com/f1"}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop())
	data := pngBytes(t, 3, 2)

	res, err := svc.Upload(context.Background(), bytes.NewReader(data), "../../cover.png")
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 3 || res.Height != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", res.Width, res.Height)
	}
	if res.Size != int64(len(data)) {
		t.Fatalf("size = %d, want %d", res.Size, len(data))
	}
	if len(store.objects) != 1 || store.objects[0].Name != "cover.png" || store.objects[0].ContentType != "image/png" {
		t.Fatalf("stored objects = %+v", store.objects)
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want error
	}{
		{"empty", nil, ErrEmptyFile},
		{"text", []byte("just some plain text, definitely not an image"), ErrNotImage},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"><script>alert(1)</script></svg>`), ErrNotImage},
		{"too large", append(pngBytes(t, 1, 1), make([]byte, MaxUploadSize)...), ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			_, err := NewService(store, zap.NewNop()).Upload(context.Background(), bytes.NewReader(tt.body), "f.png")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(store.objects) != 0 {
				t.Fatal("rejected upload reached the store")
			}
		})
	}
}

func TestUploadsDisabled(t *testing.T) {
	_, err := NewService(nil, zap.NewNop()).Upload(context.Background(), strings.NewReader("x"), "x.png")
	if !errors.Is(err, ErrUploadsDisabled) {
		t.Fatalf("err = %v", err)
	}
}
