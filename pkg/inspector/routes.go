package inspector

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	ferrors "github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/pkg/path"
)

type stateResponse struct {
	Store    string `json:"store"`
	Revision uint64 `json:"revision"`
	Path     string `json:"path"`
	Value    any    `json:"value"`
}

func (i *Inspector) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/state", i.handleState)
	r.Get("/state/*", i.handleState)
	r.Get("/ws", i.handleWebSocket)
	return r
}

func (i *Inspector) handleState(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ferrors.New(ferrors.CodeInvalidPath).Wrap(err))
		return
	}
	p, err := path.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, ferrors.New(ferrors.CodeInvalidPath).WithPath(raw).Wrap(err))
		return
	}

	snap := i.Snapshot()
	value, ok := path.Lookup(snap.State, p)
	if !ok {
		writeError(w, http.StatusNotFound, ferrors.Newf(ferrors.CategoryPath, "no value at %s", p))
		return
	}

	data, err := json.Marshal(stateResponse{
		Store:    i.name,
		Revision: snap.Revision,
		Path:     p.String(),
		Value:    value,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, ferrors.Newf(ferrors.CategoryState, "value at %s is not serializable", p).Wrap(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	var fe *ferrors.FreeduxError
	if !errors.As(err, &fe) {
		fe = ferrors.Newf(ferrors.CategoryState, "%s", err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"error": fe})
}
