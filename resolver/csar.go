package resolver

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/onecommons/tosca-parser-go/value"
	"github.com/onecommons/tosca-parser-go/yamltree"
)

// metaEntry is the well-known location of a CSAR's entry-point manifest
// (spec.md §6 "CSAR archive (boundary only)").
const metaEntry = "TOSCA-Metadata/TOSCA.meta"

// isCSAR reports whether loc looks like a CSAR archive by extension. The
// resolver only needs to distinguish "treat as ZIP" from "treat as plain
// YAML file"; content-sniffing is unnecessary since TOSCA documents are
// never themselves ZIPs.
func isCSAR(loc string) bool {
	switch strings.ToLower(path.Ext(loc)) {
	case ".csar", ".zip":
		return true
	}

	return false
}

// loadFromCSAR opens the ZIP archive at archivePath and parses its entry
// definitions document. fragment, when non-empty, names the in-archive
// path to load directly (an import from inside the same CSAR referring
// to a sibling file); otherwise the entry point is discovered from
// TOSCA-Metadata/TOSCA.meta's `Entry-Definitions` key, falling back to a
// single root-level YAML file when no metadata directory is present
// (spec.md §6).
func loadFromCSAR(archivePath, fragment string) (value.Value, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return value.NewNull(), fmt.Errorf("resolver: opening CSAR %q: %w", archivePath, err)
	}
	defer zr.Close()

	entry := fragment
	if entry == "" {
		entry, err = csarEntryDefinitions(&zr.Reader)
		if err != nil {
			return value.NewNull(), err
		}
	}

	data, err := readZipEntry(&zr.Reader, entry)
	if err != nil {
		return value.NewNull(), fmt.Errorf("resolver: reading %q from CSAR %q: %w", entry, archivePath, err)
	}

	return yamltree.Parse(archivePath+"#"+entry, data)
}

// csarEntryDefinitions locates the document to parse first: the
// `Entry-Definitions` key of TOSCA-Metadata/TOSCA.meta when present,
// otherwise the sole root-level *.yaml/*.yml file in the archive.
func csarEntryDefinitions(zr *zip.Reader) (string, error) {
	if data, err := readZipEntry(zr, metaEntry); err == nil {
		entry, ok := parseEntryDefinitions(data)
		if ok {
			return entry, nil
		}

		return "", fmt.Errorf("resolver: %s has no Entry-Definitions key", metaEntry)
	}

	var roots []string

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.Contains(f.Name, "/") {
			continue
		}

		switch strings.ToLower(path.Ext(f.Name)) {
		case ".yaml", ".yml":
			roots = append(roots, f.Name)
		}
	}

	switch len(roots) {
	case 1:
		return roots[0], nil
	case 0:
		return "", fmt.Errorf("resolver: CSAR has no %s and no root-level YAML file", metaEntry)
	default:
		return "", fmt.Errorf("resolver: CSAR has no %s and more than one root-level YAML file: %v", metaEntry, roots)
	}
}

// parseEntryDefinitions extracts the "Entry-Definitions" value from a
// TOSCA.meta document, a flat "Key: value" text format (not YAML).
func parseEntryDefinitions(data []byte) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	for scanner.Scan() {
		line := scanner.Text()

		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		if strings.TrimSpace(key) == "Entry-Definitions" {
			return strings.TrimSpace(val), true
		}
	}

	return "", false
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()

			return io.ReadAll(rc)
		}
	}

	return nil, fmt.Errorf("resolver: no such entry %q", name)
}
