package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/neetsprint/neetsprint-server/internal/rbac"
	"github.com/neetsprint/neetsprint-server/internal/storage"
)

// MountAssets serves chapter illustration blobs. Reads need asset:view
// (enforced by the caller's group); uploads additionally need
// asset:manage.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	// POST /assets/chapters/{chapterID} (multipart "file" + "name")
	r.With(rbac.Require("asset:manage")).Post("/chapters/{chapterID}", func(w http.ResponseWriter, r *http.Request) {
		chapterID := chi.URLParam(r, "chapterID")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file required")
			return
		}
		defer f.Close()

		name := r.FormValue("name")
		if name == "" {
			name = hdr.Filename
		}
		key := "chapters/" + chapterID + "/" + path.Base(name)
		if _, err := bs.Put(key, f); err != nil {
			writeError(w, http.StatusInternalServerError, "store error: "+err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key})
	})

	// GET /assets/*  -> returns the blob at whatever follows /assets/
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
