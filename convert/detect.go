package convert

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"stylebridge/archive"
)

// styleType is intermediate style document, either JSON or YAML.
var styleType = filetype.NewType("style", "application/vnd.stylebridge.style")

func init() {
	filetype.AddMatcher(styleType, styleMatcher)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func styleMatcher(buf []byte) bool {
	buf = bytes.TrimSpace(bytes.TrimPrefix(buf, utf8BOM))
	if len(buf) == 0 {
		return false
	}
	if buf[0] == '{' {
		return bytes.Contains(buf, []byte(`"rules"`))
	}
	for line := range bytes.Lines(buf) {
		if bytes.HasPrefix(line, []byte("rules:")) {
			return true
		}
	}
	return false
}

func isStyleExt(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// isArchiveFile checks extension and content of the file.
func isArchiveFile(fname string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(fname), ".zip") {
		return false, nil
	}
	file, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer file.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isStyleFile reads candidate file returning its content when it is a style.
func isStyleFile(fname string) (bool, []byte, error) {
	if !isStyleExt(fname) {
		return false, nil, nil
	}
	fi, err := os.Stat(fname)
	if err != nil {
		return false, nil, err
	}
	if fi.Size() > archive.MaxEntrySize {
		return false, nil, nil
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return false, nil, err
	}
	if !filetype.Is(data, styleType.Extension) {
		return false, nil, nil
	}
	return true, data, nil
}

// isStyleInArchive is isStyleFile for archive entries.
func isStyleInArchive(f *zip.File) (bool, []byte, error) {
	if !isStyleExt(f.Name) {
		return false, nil, nil
	}
	data, err := archive.ReadEntry(f)
	if err != nil {
		return false, nil, err
	}
	if !filetype.Is(data, styleType.Extension) {
		return false, nil, nil
	}
	return true, data, nil
}
