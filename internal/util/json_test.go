package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteJSONFileCreatesParentAndKeepsSpecialChars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")
	in := map[string]string{"a&b<c>.jpg": "highQuality", "图片.png": "skip"}

	if err := WriteJSONFile(path, in); err != nil {
		t.Fatalf("WriteJSONFile() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(raw), "a&b<c>.jpg") {
		t.Errorf("Expected unescaped filename in output, got %s", raw)
	}
	if !strings.Contains(string(raw), "图片.png") {
		t.Errorf("Expected non-ASCII filename verbatim, got %s", raw)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file should not remain after write")
	}

	var out map[string]string
	if err := ReadJSONFile(path, &out); err != nil {
		t.Fatalf("ReadJSONFile() error = %v", err)
	}
	if out["a&b<c>.jpg"] != "highQuality" {
		t.Errorf("Unexpected value: %v", out)
	}
}

func TestReadJSONFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := ReadJSONFile(path, &out); err == nil {
		t.Error("Expected parse error for corrupt file")
	}
}

func TestCopyFilePreservesContentAndModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")

	if err := os.WriteFile(src, []byte("pixels"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pixels" {
		t.Errorf("Expected copied content, got %q", data)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("Expected mtime %v, got %v", mtime, info.ModTime())
	}

	if _, err := os.Stat(src); err != nil {
		t.Error("Source must still exist after copy")
	}
}

func TestCopyFileLargeContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	content := strings.Repeat("pixel", 20000)

	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("Copied content differs (%d bytes, want %d)", len(got), len(content))
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestCopyFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(dir, filepath.Join(dir, "out")); err == nil {
		t.Error("Expected error copying a directory")
	}
}

func TestIsPlainName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.jpg", true},
		{"图片 1.png", true},
		{"..hidden.jpg", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../x.jpg", false},
		{"../../x.jpg", false},
		{"sub/a.jpg", false},
		{`sub\a.jpg`, false},
		{"/etc/passwd", false},
	}

	for _, tt := range tests {
		if got := IsPlainName(tt.name); got != tt.want {
			t.Errorf("IsPlainName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
