// Package siq imports SIQ quiz archives (a zip with a content.xml
// document plus media folders) and converts them into the pack model.
package siq

import (
	"context"
	"errors"
)

// Structural errors abort a conversion outright. Everything else
// (individual media lookups in particular) degrades instead of failing.
var (
	ErrMissingContent = errors.New("content.xml not found in SIQ archive")
	ErrContentFetch   = errors.New("failed to load SIQ content")
	ErrInvalidXML     = errors.New("invalid SIQ XML")
	ErrUnexpectedRoot = errors.New("unexpected SIQ root element")
	ErrNoRounds       = errors.New("no rounds found in SIQ package")
)

// Source abstracts where an SIQ package lives: an uploaded zip archive
// or a remote static directory. The converter depends only on this.
type Source interface {
	// LoadContentXML returns the text of the package's content.xml.
	LoadContentXML(ctx context.Context) (string, error)
	// LoadMedia resolves a declared media reference to an inline data
	// URI. A missing or unreadable asset yields "" with a nil error;
	// the converter falls back to the raw reference text.
	LoadMedia(ctx context.Context, mediaType, fileName string) (string, error)
}

// mediaFolders maps a declared media type to its conventional folder
// inside an SIQ archive.
var mediaFolders = map[string]string{
	"image": "Images",
	"audio": "Audio",
	"video": "Video",
}
