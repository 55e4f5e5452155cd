package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func makeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "styles.zip")
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(f)
	for n, content := range files {
		fw, err := w.Create(n)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", n, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", n, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return name
}

func TestWalk(t *testing.T) {
	arc := makeZip(t, map[string]string{
		"styles/roads-10.json": "10",
		"styles/roads-2.json":  "2",
		"styles/roads-1.json":  "1",
		"icons/poi.svg":        "<svg/>",
	})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"styles/", []string{"styles/roads-1.json", "styles/roads-2.json", "styles/roads-10.json"}},
		{"icons/", []string{"icons/poi.svg"}},
		{"none/", nil},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			var visited []string
			err := Walk(arc, tt.prefix, func(archive string, file *zip.File) error {
				if archive != arc {
					t.Errorf("archive = %s, want %s", archive, arc)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if !reflect.DeepEqual(visited, tt.want) {
				t.Errorf("visited = %v, want %v", visited, tt.want)
			}
		})
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	arc := makeZip(t, map[string]string{"a.json": "a", "b.json": "b"})
	stop := errors.New("stop")
	calls := 0
	err := Walk(arc, "", func(string, *zip.File) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("Walk() = %v after %d calls", err, calls)
	}
}

func TestWalk_UnsafePaths(t *testing.T) {
	for _, name := range []string{"../evil.json", "/abs.json", `..\evil.json`} {
		t.Run(name, func(t *testing.T) {
			arc := makeZip(t, map[string]string{name: "x", "ok.json": "y"})
			if err := Walk(arc, "", func(string, *zip.File) error { return nil }); err == nil {
				t.Error("expected error for unsafe entry")
			}
		})
	}
}

func TestWalk_NotArchive(t *testing.T) {
	name := filepath.Join(t.TempDir(), "plain.json")
	if err := os.WriteFile(name, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Walk(name, "", func(string, *zip.File) error { return nil }); err == nil {
		t.Error("expected error for non zip file")
	}
}

func TestReadEntry(t *testing.T) {
	arc := makeZip(t, map[string]string{"roads.json": `{"name":"roads"}`})
	var got []byte
	err := Walk(arc, "", func(_ string, f *zip.File) error {
		var err error
		got, err = ReadEntry(f)
		return err
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if string(got) != `{"name":"roads"}` {
		t.Errorf("ReadEntry() = %q", got)
	}
}
