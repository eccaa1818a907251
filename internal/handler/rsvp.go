package handler

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"rsvp-whatsapp/internal/models"
	"rsvp-whatsapp/internal/notify"
	"rsvp-whatsapp/internal/phone"
	"rsvp-whatsapp/internal/storage"
)

//go:embed templates/form.html
var formHTML string

// maxPhotoBytes bounds the multipart form held in memory.
const maxPhotoBytes = 10 << 20

// RSVPHandler serves the registration form and runs submissions through the
// pipeline.
type RSVPHandler struct {
	pipeline *Pipeline
	csvPath  string
	tmpl     *template.Template
	log      zerolog.Logger
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(pipeline *Pipeline, csvPath string, logger zerolog.Logger) *RSVPHandler {
	return &RSVPHandler{
		pipeline: pipeline,
		csvPath:  csvPath,
		tmpl:     template.Must(template.New("form").Parse(formHTML)),
		log:      logger,
	}
}

// Routes wires the handler's endpoints.
func (h *RSVPHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ShowForm)
	r.Post("/rsvp", h.SubmitForm)
	r.Get("/rsvp.csv", h.DownloadCSV)
	return r
}

type formPage struct {
	Referrals []string
	Message   string
	Warning   string
	Error     string
	Record    *models.RSVP
}

// ShowForm renders the empty registration form.
func (h *RSVPHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, formPage{Referrals: models.ReferralOptions})
}

// SubmitForm handles one multipart form submission.
func (h *RSVPHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		h.render(w, http.StatusBadRequest, formPage{Referrals: models.ReferralOptions, Error: "Could not read the submitted form."})
		return
	}

	sub := Submission{
		MobileRaw:      r.FormValue("mobile"),
		FullName:       r.FormValue("full_name"),
		DateOfBirth:    r.FormValue("dob"),
		FullAddress:    r.FormValue("full_address"),
		Education:      r.FormValue("education"),
		Occupation:     r.FormValue("occupation"),
		IsHost:         r.FormValue("is_host"),
		AttendedBefore: r.FormValue("attended_before"),
		Referral:       r.FormValue("referral"),
		ReferralOther:  r.FormValue("referral_other"),
		PraptiDin:      r.FormValue("p3y_prapti_din"),
		Experience:     r.FormValue("experience"),
		Skill:          r.FormValue("skill"),
	}

	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			h.render(w, http.StatusBadRequest, formPage{Referrals: models.ReferralOptions, Error: "Could not read the uploaded photo."})
			return
		}
		sub.Photo = data
		sub.PhotoType = header.Header.Get("Content-Type")
	}

	outcome, err := h.pipeline.Submit(r.Context(), sub)
	if err != nil {
		h.renderError(w, err)
		return
	}

	page := formPage{Referrals: models.ReferralOptions, Record: &outcome.Record}
	saved := "RSVP saved ✅"
	if outcome.Duplicate {
		saved = "Already registered, confirmation re-sent"
	}
	switch {
	case outcome.NotifyErr != nil:
		page.Warning = fmt.Sprintf("RSVP saved, but WhatsApp send failed: %v", outcome.NotifyErr)
	case outcome.Notified.Status != notify.StatusSkipped:
		page.Message = saved + "  WhatsApp confirmation sent 📲"
	default:
		page.Message = saved
	}
	h.render(w, http.StatusOK, page)
}

// DownloadCSV streams the raw backing file for the organizers.
func (h *RSVPHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(h.csvPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="rsvp.csv"`)
	if _, err := io.Copy(w, f); err != nil {
		h.log.Error().Err(err).Msg("Error streaming CSV download")
	}
}

func (h *RSVPHandler) renderError(w http.ResponseWriter, err error) {
	page := formPage{Referrals: models.ReferralOptions}
	status := http.StatusInternalServerError

	var vErr *ValidationError
	switch {
	case errors.Is(err, ErrBusy):
		status = http.StatusTooManyRequests
		page.Error = "Processing a previous submission, please wait a moment."
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
		page.Error = vErr.Message
	case errors.Is(err, phone.ErrInvalidPhone):
		status = http.StatusBadRequest
		page.Error = "Invalid mobile number for the configured region."
	case errors.Is(err, storage.ErrStorageWrite):
		page.Error = "Could not save your RSVP, please try again."
	default:
		page.Error = fmt.Sprintf("Failed: %v", err)
	}
	h.render(w, status, page)
}

func (h *RSVPHandler) render(w http.ResponseWriter, status int, page formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.Execute(w, page); err != nil {
		h.log.Error().Err(err).Msg("Error rendering form")
	}
}
