package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/packsmith/packsmith/internal/auth/middleware"
	"github.com/packsmith/packsmith/internal/pack"
)

// GET /pack — the editor's current working copy.
func GetPackHandler(store pack.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.LoadCurrent(r.Context())
		if err != nil {
			if errors.Is(err, pack.ErrNotFound) {
				http.Error(w, "no current pack", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, p)
	}
}

// PUT /pack — replace the current pack with an uploaded JSON document.
// Mirrors the editor's file-upload validation: author, name, and a
// rounds array must be present; blank rules are dropped; questions
// without IDs get fresh ones.
func SavePackHandler(store pack.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p pack.Pack
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if p.Author == "" || p.Name == "" || p.Rounds == nil {
			http.Error(w, "invalid pack JSON structure", http.StatusBadRequest)
			return
		}
		p = dropBlankRules(p)
		p = pack.NormalizeQuestionIDs(p)
		if err := store.SaveCurrent(r.Context(), p, auth.SubjectFromContext(r.Context())); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, p)
	}
}

// DELETE /pack — clear the working copy and its revision history.
func ClearPackHandler(store pack.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /pack/export — download the current pack as a JSON attachment.
func ExportPackHandler(store pack.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.LoadCurrent(r.Context())
		if err != nil {
			if errors.Is(err, pack.ErrNotFound) {
				http.Error(w, "no current pack", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition",
			`attachment; filename="`+pack.DownloadFileName(p.Name)+`.json"`)
		_, _ = w.Write(b)
	}
}

// GET /pack/revisions?limit=N
func ListRevisionsHandler(store pack.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		revs, err := store.ListRevisions(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if revs == nil {
			revs = []pack.RevisionSummary{}
		}
		writeJSON(w, revs)
	}
}

// GET /pack/revisions/{revisionID}
func GetRevisionHandler(store pack.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "revisionID")
		p, err := store.GetRevision(r.Context(), id)
		if err != nil {
			if errors.Is(err, pack.ErrNotFound) {
				http.Error(w, "revision not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, p)
	}
}

// dropBlankRules removes embedded rules whose rich-text content is
// effectively empty (whitespace and empty markup only).
func dropBlankRules(p pack.Pack) pack.Pack {
	for ri := range p.Rounds {
		for ti := range p.Rounds[ri].Themes {
			qs := p.Rounds[ri].Themes[ti].Questions
			for qi := range qs {
				qs[qi].Rules = filterRules(qs[qi].Rules)
				qs[qi].AfterRound = filterRules(qs[qi].AfterRound)
			}
		}
	}
	return p
}

func filterRules(rules []pack.Rule) []pack.Rule {
	out := rules[:0]
	for _, rule := range rules {
		if rule.Type == pack.RuleEmbedded && pack.IsContentEmpty(rule.Content) {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
