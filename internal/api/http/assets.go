// internal/api/http/assets.go
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/packsmith/packsmith/internal/rbac"
	"github.com/packsmith/packsmith/internal/storage"
)

func MountAssets(r chi.Router, bs storage.BlobStore) {
	// POST /assets/{packName} — editor media uploads, keyed by pack.
	r.With(rbac.Require("assets:upload")).Post("/{packName}", func(w http.ResponseWriter, r *http.Request) {
		packName := chi.URLParam(r, "packName")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		name := path.Base(hdr.Filename)
		if name == "." || name == "/" || name == "" {
			name = "upload.bin"
		}
		key := "packs/" + packName + "/" + name
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		url, err := bs.SignedURL(key)
		if err != nil {
			url = ""
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"key": key, "url": url})
	})

	// GET /assets/*   -> returns the blob at whatever follows /assets/
	r.With(rbac.Require("assets:view")).Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")        // everything after /assets/
		key = strings.TrimPrefix(key, "/") // normalize
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found: "+err.Error(), http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	})
}
