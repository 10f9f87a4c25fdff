package web

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/jayteemoney/ticket/internal/draft"
	"github.com/jayteemoney/ticket/internal/upload"
	"github.com/jayteemoney/ticket/internal/wizard"
)

const (
	noticePickTicket   = "Select a ticket type to continue."
	noticeUploadFailed = "Image upload failed. Please try again."
	noticeNotImage     = "Please choose an image file."
	noticeNoUploads    = "Photo uploads are not available right now."
)

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	f, err := s.flow(w, r)
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	s.renderSelection(w, http.StatusOK, f.BeginSelection(), "")
}

func (s *Server) handleSelectionPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	f, err := s.flow(w, r)
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	sel := f.BeginSelection()

	// the staged selection round-trips through the form
	if v := r.PostFormValue("ticket_type"); v != "" {
		if err := sel.Select(draft.TicketType(v)); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
	}
	if v := r.PostFormValue("ticket_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeErr(w, fmt.Errorf("%w: %q", draft.ErrTicketCount, v), http.StatusBadRequest)
			return
		}
		if err := sel.SetCount(n); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
	}
	if v := r.PostFormValue("select"); v != "" {
		if err := sel.Select(draft.TicketType(v)); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
	}

	switch r.PostFormValue("action") {
	case "next":
		step, err := sel.Next()
		switch {
		case errors.Is(err, wizard.ErrNoTicketType):
			s.renderSelection(w, http.StatusUnprocessableEntity, sel, noticePickTicket)
		case err != nil:
			writeErr(w, err, http.StatusInternalServerError)
		default:
			http.Redirect(w, r, step.Path(), http.StatusFound)
		}
	case "cancel":
		step, err := sel.Cancel()
		if err != nil {
			writeErr(w, err, http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, step.Path(), http.StatusFound)
	default:
		s.renderSelection(w, http.StatusOK, sel, "")
	}
}

func (s *Server) renderSelection(w http.ResponseWriter, code int, sel *wizard.Selection, notice string) {
	var tiers []tierView
	for _, t := range draft.Tiers() {
		tiers = append(tiers, tierView{
			Type:     t.Type,
			Price:    wizard.TierPrice(t),
			Selected: t.Type == sel.Type,
		})
	}
	s.render(w, "templates/selection.html", code, tmplData{
		Step:       wizard.StepSelection,
		Notice:     notice,
		Tiers:      tiers,
		Counts:     draft.Counts(),
		Selected:   sel.Type,
		Count:      sel.Count,
		CanAdvance: sel.CanAdvance(),
	})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	f, err := s.flow(w, r)
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	s.renderDetails(w, http.StatusOK, f.BeginDetails(), nil, "")
}

func (s *Server) handleDetailsPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeErr(w, fmt.Errorf("photo must be at most %d bytes", s.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	f, err := s.flow(w, r)
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}

	action := r.FormValue("action")
	if action == "back" {
		det := f.BeginDetails()
		http.Redirect(w, r, det.Back().Path(), http.StatusFound)
		return
	}

	det := f.BeginDetails()
	det.FullName = r.FormValue("full_name")
	det.Email = r.FormValue("email")
	det.SpecialRequest = r.FormValue("special_request")
	if url, ok := s.stagedPhoto(r.FormValue("profile_image")); ok {
		det.ProfileImage = url
	}

	var notice string
	file, fh, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		writeErr(w, err, http.StatusBadRequest)
		return
	case fh.Size > s.MaxUploadBytes:
		file.Close()
		writeErr(w, fmt.Errorf("photo must be at most %d bytes", s.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	default:
		notice = s.uploadPhoto(r, det, file, fh)
	}

	if action != "submit" {
		s.renderDetails(w, http.StatusOK, det, nil, notice)
		return
	}

	step, errs, err := det.Submit()
	switch {
	case err != nil:
		writeErr(w, err, http.StatusInternalServerError)
	case len(errs) > 0:
		s.renderDetails(w, http.StatusUnprocessableEntity, det, errs, notice)
	default:
		http.Redirect(w, r, step.Path(), http.StatusFound)
	}
}

// stagedPhoto opens the sealed photo token posted back by the details form.
// Missing or forged tokens leave the committed photo in place.
func (s *Server) stagedPhoto(token string) (string, bool) {
	if token == "" || s.Photos == nil {
		return "", false
	}
	url, err := s.Photos.Open(token)
	if err != nil {
		log.Printf("details: ignoring staged photo: %v", err)
		return "", false
	}
	return url, true
}

// uploadPhoto sends the attached file to the image host and stages the result.
// A failure keeps the previously staged photo and yields a notice for the page.
func (s *Server) uploadPhoto(r *http.Request, det *wizard.Details, file multipart.File, fh *multipart.FileHeader) string {
	if s.Uploader == nil {
		file.Close()
		return noticeNoUploads
	}

	task := upload.Start(r.Context(), s.Uploader, fh.Filename, file)
	// the upload reads file until the task is done, even when the wait ends early
	defer func() {
		<-task.Done()
		file.Close()
	}()
	res := task.Wait(r.Context())
	if res.State() == upload.Failed {
		log.Printf("upload %q: %v", fh.Filename, res.Err)
		if errors.Is(res.Err, upload.ErrNotImage) {
			return noticeNotImage
		}
		return noticeUploadFailed
	}
	det.ApplyUpload(res)
	return ""
}

func (s *Server) renderDetails(w http.ResponseWriter, code int, det *wizard.Details, errs wizard.FieldErrors, notice string) {
	var token string
	if det.ProfileImage != "" && s.Photos != nil {
		t, err := s.Photos.Seal(det.ProfileImage)
		if err != nil {
			writeErr(w, err, http.StatusInternalServerError)
			return
		}
		token = t
	}
	s.render(w, "templates/details.html", code, tmplData{
		Step:       wizard.StepDetails,
		Notice:     notice,
		Details:    det,
		Errors:     errs,
		PhotoToken: token,
	})
}

func (s *Server) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	f, err := s.flow(w, r)
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	s.render(w, "templates/confirmation.html", http.StatusOK, tmplData{
		Step:    wizard.StepConfirmation,
		Summary: f.Confirmation(),
	})
}
