package file

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeList(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exports.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadList(t *testing.T) {
	t.Parallel()

	path := writeList(t, `
# branch A exports
https://exports.example.com/branch-a.csv
   # indented comment
https://exports.example.com/branch-b.csv

   https://exports.example.com/branch-c.csv
`)

	got, err := ReadList(path)
	if err != nil {
		t.Fatalf("ReadList: %v", err)
	}

	want := []string{
		"https://exports.example.com/branch-a.csv",
		"https://exports.example.com/branch-b.csv",
		"https://exports.example.com/branch-c.csv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReadList = %v, want %v", got, want)
	}
}

func TestReadList_Empty(t *testing.T) {
	t.Parallel()

	got, err := ReadList(writeList(t, "# only comments\n\n"))
	if err != nil {
		t.Fatalf("ReadList: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("ReadList = %v, want no entries", got)
	}
}

func TestReadList_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ReadList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("ReadList succeeded on a missing file")
	}
}
