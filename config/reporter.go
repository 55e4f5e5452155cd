package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/maruel/natural"

	"stylebridge/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty debug report.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	r.file = f
	return r, nil
}

type entry struct {
	original string
	actual   string
	stamp    time.Time
	data     []byte
}

// Report accumulates files and data for the debug archive: inputs, produced
// styles, logs and configuration. Inputs are converted in parallel, so it is
// safe for concurrent use. Nil report ignores everything, which means no
// report has been requested.
type Report struct {
	mu      sync.Mutex
	entries map[string]entry
	file    *os.File
}

// Close writes the archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalize()
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers file to be put into archive later under name. Same name
// may be stored again only for the same path.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.entries[name]; exists && old.original != path {
		panic(fmt.Sprintf("Attempt to overwrite file in the report for [%s]: was %s, now %s", name, old.original, path))
	}
	e := entry{original: path, actual: path}
	if p, err := filepath.Abs(path); err == nil {
		e.actual = p
	}
	r.entries[name] = e
}

// StoreData keeps data to be put into archive as a file under name. Repeated
// names get numeric suffix.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	base := name
	for i := 1; ; i++ {
		if _, exists := r.entries[name]; !exists {
			break
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)
	defer arc.Close()

	names, manifest := prepareManifest(r.entries)
	if err := saveFile(arc, "MANIFEST", time.Now(), manifest); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if len(e.data) > 0 {
			if err := saveFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		// absent files are ignored
		info, err := os.Stat(e.actual)
		if err != nil {
			continue
		}
		switch {
		case info.Mode().IsRegular():
			if err := saveFromDisk(arc, name, e.actual, info.ModTime()); err != nil {
				return err
			}
		case info.Mode().IsDir():
			if err := saveDir(arc, name, e.actual); err != nil {
				return err
			}
		}
	}
	return nil
}

// prepareManifest lists entries in natural order, so numbered inputs follow
// each other.
func prepareManifest(entries map[string]entry) ([]string, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	if len(entries) == 0 {
		return nil, buf
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))

	now := time.Now()
	for _, k := range keys {
		e := entries[k]
		if e.stamp.IsZero() {
			e.stamp = now
		}
		fmt.Fprintf(buf, "%s\t%s\t%s : %s\n", e.stamp.UTC().Format(time.UnixDate), k, e.original, e.actual)
	}
	return keys, buf
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func saveFromDisk(dst *zip.Writer, name, path string, t time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return saveFile(dst, name, t, f)
}

func saveDir(dst *zip.Writer, name, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return saveFromDisk(dst, filepath.ToSlash(filepath.Join(name, rel)), path, info.ModTime())
	})
}
