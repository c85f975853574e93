package server

import (
	"errors"
	"net/http"

	"tinyserve/internal/content"
	serveerrors "tinyserve/internal/errors"
)

// defaultContentType is sent when a response declares none.
const defaultContentType = "text/plain; charset=utf-8"

// contentHandler answers every method and path from the spec.
type contentHandler struct {
	spec    content.Spec
	builder content.Builder
	fail    func(error)
}

func (h *contentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h.builder.Serve(h.spec, r.URL.Path)

	contentType := resp.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.Status)

	if len(resp.Body) == 0 {
		return
	}
	if _, err := w.Write(resp.Body); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		h.fail(serveerrors.NewServeError(serveerrors.RespondFailure, "failed to respond to "+r.Method+" "+r.URL.Path, err))
	}
}
