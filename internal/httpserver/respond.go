package httpserver

import (
	"encoding/json"
	"mime"
	"net/http"
	"os"

	"codeberg.org/mutker/hostctl/internal/action"
	"github.com/rs/zerolog/hlog"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("Failed to write response")
	}
}

func writeResult(w http.ResponseWriter, r *http.Request, res action.Result) {
	if res.Success() && res.Attachment != nil {
		sendAttachment(w, r, *res.Attachment)
		return
	}

	writeJSON(w, r, res.Status(), res.Body())
}

func sendAttachment(w http.ResponseWriter, r *http.Request, a action.Attachment) {
	log := hlog.FromRequest(r)

	if a.Remove {
		defer func() {
			if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
				log.Warn().Err(err).Str("path", a.Path).Msg("Failed to remove temporary file")
			}
		}()
	}

	f, err := os.Open(a.Path)
	if err != nil {
		writeJSON(w, r, http.StatusInternalServerError,
			action.Fail(action.KindServerError, "Failed to open file: "+err.Error()).Body())
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		writeJSON(w, r, http.StatusInternalServerError,
			action.Fail(action.KindServerError, "Failed to stat file: "+err.Error()).Body())
		return
	}

	if a.ContentType != "" {
		w.Header().Set("Content-Type", a.ContentType)
	}
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": a.Name}))

	http.ServeContent(w, r, a.Name, st.ModTime(), f)
}
