package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	auth "github.com/packsmith/packsmith/internal/auth/middleware"
	"github.com/packsmith/packsmith/internal/pack"
	"github.com/packsmith/packsmith/internal/siq"
	"github.com/packsmith/packsmith/internal/storage"
)

// POST /siq/import (multipart: file=pack.siq)
//
// Converts an uploaded SIQ archive, stores the result as the current
// pack, and retains the raw archive in blob storage for re-import.
// Structural conversion errors surface as a 400 with the converter's
// message; the stored pack is left untouched on failure.
func ImportSIQHandler(store pack.Store, bs storage.BlobStore, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		src, err := siq.NewZipSource(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := siq.Convert(r.Context(), src)
		if err != nil {
			http.Error(w, "import failed: "+err.Error(), http.StatusBadRequest)
			return
		}
		p = pack.NormalizeQuestionIDs(p)

		if err := store.SaveCurrent(r.Context(), p, auth.SubjectFromContext(r.Context())); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// Best effort: keep the original archive around.
		archiveKey := "siq/" + uuid.NewString() + ".siq"
		if _, err := bs.Put(archiveKey, bytes.NewReader(data)); err != nil {
			log.Printf("siq: failed to retain archive %s: %v", hdr.Filename, err)
			archiveKey = ""
		}

		writeJSON(w, map[string]interface{}{
			"pack":        p,
			"filename":    hdr.Filename,
			"archive_key": archiveKey,
		})
	}
}

// POST /siq/import-remote  { "base_url": "https://host/siq" }
//
// Converts an SIQ package served as a static directory. An empty
// base_url falls back to the configured default.
func ImportSIQRemoteHandler(store pack.Store, defaultBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			BaseURL string `json:"base_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		base := req.BaseURL
		if base == "" {
			base = defaultBase
		}
		src := siq.NewHTTPSource(base, nil)
		p, err := siq.Convert(r.Context(), src)
		if err != nil {
			http.Error(w, "import failed: "+err.Error(), http.StatusBadRequest)
			return
		}
		p = pack.NormalizeQuestionIDs(p)

		if err := store.SaveCurrent(r.Context(), p, auth.SubjectFromContext(r.Context())); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"pack": p, "base_url": base})
	}
}
