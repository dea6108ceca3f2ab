package handler

import (
	"net/http"
	"strings"

	"github.com/mrowtown/cali-votes/internal/application/upload"
)

// UploadHandler serves the screenshot upload flow: the token entry page and
// the token-gated upload form.
type UploadHandler struct {
	svc      upload.Service
	sessions SessionReader
	rn       *Renderer
}

func NewUploadHandler(svc upload.Service, sessions SessionReader, rn *Renderer) *UploadHandler {
	return &UploadHandler{svc: svc, sessions: sessions, rn: rn}
}

type uploadView struct {
	View
	Token        string
	FatalMessage string
	ErrorMessage string
	Done         bool
}

func (h *UploadHandler) Entry(w http.ResponseWriter, r *http.Request) {
	_, sess := profileSession(r, h.sessions)
	h.rn.Render(w, http.StatusOK, "upload_entry", uploadView{
		View: View{Title: "Upload", Session: sess},
	})
}

func (h *UploadHandler) Show(w http.ResponseWriter, r *http.Request) {
	_, sess := profileSession(r, h.sessions)
	v := uploadView{
		View:  View{Title: "Upload", Session: sess},
		Token: strings.TrimSpace(r.URL.Query().Get("token")),
	}
	if v.Token == "" {
		v.FatalMessage = "Missing upload token. Use the link from your email."
	}
	h.rn.Render(w, http.StatusOK, "upload", v)
}

func (h *UploadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	_, sess := profileSession(r, h.sessions)

	if err := r.ParseMultipartForm(upload.MaxScreenshotBytes + 1<<20); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	v := uploadView{
		View:  View{Title: "Upload", Session: sess},
		Token: strings.TrimSpace(r.PostFormValue("token")),
	}

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		v.ErrorMessage = "Choose a screenshot first."
		h.rn.Render(w, http.StatusUnprocessableEntity, "upload", v)
		return
	}
	defer file.Close()

	if err := h.svc.Submit(r.Context(), v.Token, header.Header.Get("Content-Type"), file); err != nil {
		v.ErrorMessage = userMessage(err)
		h.rn.Render(w, statusFor(err), "upload", v)
		return
	}

	v.Done = true
	h.rn.Render(w, http.StatusOK, "upload", v)
}
