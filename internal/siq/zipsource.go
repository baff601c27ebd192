package siq

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
)

// ZipSource serves an SIQ package from in-memory archive bytes.
//
// Real-world archives are inconsistent about path casing, URL-encoding,
// and folder naming, so media lookup is a best-effort ladder: exact
// candidates first, then a full scan on normalized base names. A miss
// is never an error here.
type ZipSource struct {
	byName  map[string]*zip.File
	entries []*zip.File
}

func NewZipSource(data []byte) (*ZipSource, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open SIQ archive: %w", err)
	}
	s := &ZipSource{byName: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		s.entries = append(s.entries, f)
		if _, ok := s.byName[f.Name]; !ok {
			s.byName[f.Name] = f
		}
	}
	return s, nil
}

// LoadContentXML returns the first entry named content.xml, matched
// case-insensitively at any directory depth.
func (s *ZipSource) LoadContentXML(ctx context.Context) (string, error) {
	for _, f := range s.entries {
		if strings.EqualFold(path.Base(f.Name), "content.xml") {
			b, err := readEntry(f)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", f.Name, err)
			}
			return string(b), nil
		}
	}
	return "", ErrMissingContent
}

func (s *ZipSource) LoadMedia(ctx context.Context, mediaType, fileName string) (string, error) {
	entry := s.findEntry(mediaFolders[mediaType], fileName)
	if entry == nil {
		log.Printf("siq: media file not found in archive: %s", fileName)
		return "", nil
	}
	b, err := readEntry(entry)
	if err != nil {
		log.Printf("siq: failed to read media entry %s: %v", entry.Name, err)
		return "", nil
	}
	return toDataURI(b, guessMIME(fileName, mediaType+"/*")), nil
}

// findEntry resolves a loosely-specified media reference. Authoring
// tools disagree on whether names are URL-encoded and folders
// capitalized, so several filename encodings are tried under the
// preferred folder, its lower-cased form, and the archive root before
// falling back to a whole-archive scan on normalized base names.
func (s *ZipSource) findEntry(preferredFolder, fileName string) *zip.File {
	decoded := safeDecode(fileName)
	variants := dedupe([]string{
		fileName,
		decoded,
		encodePath(decoded),
		strings.TrimSpace(decoded),
		encodePath(strings.TrimSpace(decoded)),
	})

	folders := []string{preferredFolder, strings.ToLower(preferredFolder), ""}
	for _, folder := range folders {
		for _, name := range variants {
			candidate := name
			if folder != "" {
				candidate = folder + "/" + name
			}
			if f, ok := s.byName[candidate]; ok {
				return f
			}
		}
	}

	base := fileName
	if i := strings.LastIndex(base, "/"); i >= 0 && i+1 < len(base) {
		base = base[i+1:]
	}
	target := normalizeName(base)
	for _, f := range s.entries {
		// Alternate-data-stream markers are filesystem noise, not media.
		if strings.Contains(f.Name, "Zone.Identifier") {
			continue
		}
		entryBase := f.Name
		if i := strings.LastIndex(entryBase, "/"); i >= 0 {
			entryBase = entryBase[i+1:]
		}
		if normalizeName(entryBase) == target {
			return f
		}
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// safeDecode percent-decodes a name, returning it unchanged when the
// encoding is broken.
func safeDecode(s string) string {
	dec, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return dec
}

// encodePath re-encodes a decoded name the way a URL path would be.
func encodePath(s string) string {
	u := url.URL{Path: s}
	return u.EscapedPath()
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(safeDecode(s), "\\", "/")))
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
