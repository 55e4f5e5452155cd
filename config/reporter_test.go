package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Archive(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	input := filepath.Join(dir, "roads.json")
	if err := os.WriteFile(input, []byte(`{"name":"roads"}`), 0644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "icons")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "a.svg"), []byte("<svg/>"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("input-2", input)
	r.Store("input-2", input)
	r.Store("icons", sub)
	r.Store("missing", filepath.Join(dir, "nothing-here"))
	r.StoreData("config.yaml", []byte("version: 1\n"))
	r.StoreData("config.yaml", []byte("version: 1\n"))

	if r.Name() != conf.Destination {
		t.Errorf("Name() = %q, want %q", r.Name(), conf.Destination)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, conf.Destination)
	if files["input-2"] != `{"name":"roads"}` {
		t.Errorf("input-2 = %q", files["input-2"])
	}
	if files["icons/a.svg"] != "<svg/>" {
		t.Errorf("icons/a.svg = %q", files["icons/a.svg"])
	}
	if files["config.yaml"] != "version: 1\n" {
		t.Errorf("config.yaml = %q", files["config.yaml"])
	}
	if _, ok := files["missing"]; ok {
		t.Error("absent file must be skipped")
	}
	if files["config.yaml-1"] != "version: 1\n" {
		t.Errorf("config.yaml-1 = %q", files["config.yaml-1"])
	}
	if !strings.Contains(files["MANIFEST"], "input-2") {
		t.Errorf("MANIFEST = %q", files["MANIFEST"])
	}
}

func TestReport_StoreConflict(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("a", "/tmp/one")
	defer func() {
		if recover() == nil {
			t.Error("expected panic on conflicting store")
		}
	}()
	r.Store("a", "/tmp/two")
}

func TestReport_Concurrent(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.StoreData("style", []byte{byte(i)})
		}()
	}
	wg.Wait()
	if len(r.entries) != 16 {
		t.Errorf("entries = %d, want 16", len(r.entries))
	}
}

func TestPrepareManifest_NaturalOrder(t *testing.T) {
	entries := map[string]entry{
		"input-10": {original: "x"},
		"input-2":  {original: "y"},
		"input-1":  {original: "z"},
	}
	keys, _ := prepareManifest(entries)
	want := []string{"input-1", "input-2", "input-10"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil report error = %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if r.Name() != "" {
		t.Error("nil report must have no name")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close() with nil file error = %v", err)
	}
}
