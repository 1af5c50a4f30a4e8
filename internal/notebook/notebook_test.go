package notebook

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gerunddev/tomzim/internal/convert"
)

func TestIndexString(t *testing.T) {
	ix := Index{Name: "Tomboy Notes", Home: "Starts Here", DocumentRoot: "/home/me/Notebooks"}

	expected := "[Notebook]\nname=Tomboy Notes\nhome=:Starts Here\nicon=None\n" +
		"document_root=/home/me/Notebooks\nslow_fs=False\nversion=0.4\n"
	if actual := ix.String(); actual != expected {
		t.Errorf("String() = %q, want %q", actual, expected)
	}
}

func TestWriteIndex(t *testing.T) {
	dir := t.TempDir()
	ix := Index{Name: "Notes", Home: "Home", DocumentRoot: dir}

	if err := WriteIndex(dir, ix); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		t.Fatalf("Failed to read index: %v", err)
	}
	if string(data) != ix.String() {
		t.Errorf("index contents = %q, want %q", data, ix.String())
	}
}

func TestPrepare(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "notebook")
	if err := Prepare(dir); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("Prepare did not create %s", dir)
	}

	// existing directory is fine
	if err := Prepare(dir); err != nil {
		t.Errorf("Prepare on existing dir failed: %v", err)
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := Prepare(file); err == nil {
		t.Error("Prepare should reject a regular file")
	}
}

func TestWritePage(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Date(2023, 5, 1, 10, 15, 30, 0, time.Local)
	note := convert.Note{
		Name:       "Shopping_List",
		Body:       "====== Shopping List ======\nEggs",
		CreateDate: "2023-04-30T09:00:00",
		ModTime:    mtime,
	}

	path, err := WritePage(dir, note)
	if err != nil {
		t.Fatalf("WritePage failed: %v", err)
	}
	if path != filepath.Join(dir, "Shopping_List.txt") {
		t.Errorf("path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read page: %v", err)
	}
	if string(data) != note.String() {
		t.Errorf("page contents = %q, want %q", data, note.String())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.ModTime().Unix() != mtime.Unix() {
		t.Errorf("page mtime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestWritePageWithoutMTime(t *testing.T) {
	dir := t.TempDir()
	before := time.Now().Add(-time.Minute)

	path, err := WritePage(dir, convert.Note{Name: "Plain", Body: "x"})
	if err != nil {
		t.Fatalf("WritePage failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.ModTime().Before(before) {
		t.Errorf("page mtime %v should be left at write time", info.ModTime())
	}
}
