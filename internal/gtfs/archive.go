package gtfs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
)

// LineFeed is the GTFS archive of a single line.
type LineFeed struct {
	Line string
	Data []byte
}

// splitArchive returns the line feeds contained in b. An archive holding
// stops.txt at its root is a plain feed and becomes a single line named
// defaultLine; otherwise every inner zip whose name matches pattern is a
// line feed, named by the first capture group.
func splitArchive(b []byte, pattern *regexp.Regexp, defaultLine string) ([]LineFeed, error) {
	reader, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("error opening GTFS archive: %w", err)
	}

	var feeds []LineFeed
	plain := false
	for _, file := range reader.File {
		if file.Name == "stops.txt" {
			plain = true
			break
		}
	}
	if plain {
		return []LineFeed{{Line: defaultLine, Data: b}}, nil
	}

	seen := make(map[string]string)
	for _, file := range reader.File {
		match := pattern.FindStringSubmatch(file.Name)
		if match == nil {
			continue
		}
		line := match[0]
		if len(match) > 1 && match[1] != "" {
			line = match[1]
		}
		if other, dup := seen[line]; dup {
			return nil, fmt.Errorf("archive holds two feeds for line %s: %s and %s", line, other, file.Name)
		}
		seen[line] = file.Name

		data, err := readZipFile(file)
		if err != nil {
			return nil, fmt.Errorf("error reading line feed %s: %w", file.Name, err)
		}
		feeds = append(feeds, LineFeed{Line: line, Data: data})
	}
	if len(feeds) == 0 {
		return nil, fmt.Errorf("archive contains neither stops.txt nor line feeds matching %q", pattern.String())
	}

	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].Line < feeds[j].Line
	})
	return feeds, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close() // nolint
	return io.ReadAll(rc)
}

// openZipEntry returns the named file of a zip archive, or nil when the
// archive does not contain it.
func openZipEntry(b []byte, name string) (*zip.File, error) {
	reader, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, err
	}
	for _, file := range reader.File {
		if file.Name == name || path.Base(file.Name) == name {
			return file, nil
		}
	}
	return nil, nil
}
