package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalPut(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/media")

	res, err := l.Put(context.Background(), strings.NewReader("fake image bytes"), PutInput{
		Filename:    "scan.jpg",
		ContentType: "image/jpeg",
		Size:        16,
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !strings.HasSuffix(res.Key, ".jpg") {
		t.Errorf("key = %q, want .jpg suffix", res.Key)
	}
	if !strings.HasPrefix(res.URL, "/media/") {
		t.Errorf("url = %q", res.URL)
	}

	data, err := os.ReadFile(filepath.Join(dir, res.Key))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestLocalPutStripsUnsafeExtension(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/media")

	res, err := l.Put(context.Background(), strings.NewReader("x"), PutInput{
		Filename: "../evil.sh",
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if strings.Contains(res.Key, "..") || strings.HasSuffix(res.Key, ".sh") {
		t.Errorf("unsafe key = %q", res.Key)
	}
}

func TestLocalDelete(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/media")

	res, err := l.Put(context.Background(), strings.NewReader("x"), PutInput{Filename: "a.png"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := l.Delete(context.Background(), res.Key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, res.Key)); !os.IsNotExist(err) {
		t.Errorf("file still present after delete: %v", err)
	}
}
