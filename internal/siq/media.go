package siq

import (
	"encoding/base64"
	"strings"
)

// toDataURI embeds raw bytes as a base64 data URI with the given MIME
// type. Byte content is never validated against the claimed type.
func toDataURI(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// guessMIME maps common media extensions to canonical MIME strings.
// Unknown extensions get the caller's fallback (typically "<type>/*").
func guessMIME(fileName, fallback string) string {
	ext := ""
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = strings.ToLower(fileName[i+1:])
	}
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "svg":
		return "image/svg+xml"
	case "mp3", "mpeg":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "ogg":
		return "audio/ogg"
	case "mp4":
		return "video/mp4"
	case "webm":
		return "video/webm"
	default:
		return fallback
	}
}
