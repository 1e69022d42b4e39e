package seller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/georgemunganga/printa-storefront/internal/modules/auth"
	"github.com/georgemunganga/printa-storefront/internal/modules/product"
	"github.com/georgemunganga/printa-storefront/internal/validation"
	"github.com/go-chi/chi/v5"
)

// SessionReader reports who the dashboard is acting as.
type SessionReader interface {
	Session(ctx context.Context) (*auth.Session, error)
}

// Handler exposes the seller dashboard over HTTP.
type Handler struct {
	workflow *Workflow
	products product.Service
	sessions SessionReader
	feed     *Feed
	maxImage int64
}

func NewHandler(workflow *Workflow, products product.Service, sessions SessionReader, feed *Feed, maxImage int64) *Handler {
	return &Handler{workflow: workflow, products: products, sessions: sessions, feed: feed, maxImage: maxImage}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/seller", func(r chi.Router) {
		r.Get("/draft", h.getDraft)
		r.Patch("/draft", h.updateDraft)
		r.Post("/draft/image", h.stageImage)
		r.Get("/products", h.listProducts)
		r.Post("/products", h.submitProduct)
		r.Get("/commission", h.commission)
		r.Get("/notifications", h.notifications)
		r.Get("/session", h.session)
	})
}

type draftView struct {
	Draft
	Commission string `json:"commission"`
	ImageName  string `json:"image_name,omitempty"`
	Preview    string `json:"preview,omitempty"`
	Submitting bool   `json:"submitting"`
}

func (h *Handler) draftView() draftView {
	v := draftView{
		Draft:      h.workflow.Draft(),
		Preview:    h.workflow.Preview(),
		Submitting: h.workflow.Submitting(),
	}
	v.Commission = v.Draft.CommissionPreview()
	if f := h.workflow.StagedFile(); f != nil {
		v.ImageName = f.Name
	}
	return v
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.draftView())
}

func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.workflow.SetFields(fields); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, http.StatusOK, h.draftView())
}

func (h *Handler) stageImage(w http.ResponseWriter, r *http.Request) {
	limit := h.maxImage
	if limit <= 0 {
		limit = 32 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(limit); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, MsgImageTooLarge)
		return
	}
	headers := r.MultipartForm.File["image"]
	files := make([]ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		files = append(files, ImageFile{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data})
	}

	if _, err := h.workflow.StageImage(r.Context(), files); err != nil {
		switch {
		case errors.Is(err, ErrImageTooLarge):
			respondError(w, http.StatusRequestEntityTooLarge, MsgImageTooLarge)
		default:
			respondError(w, http.StatusUnsupportedMediaType, MsgImageUnsupported)
		}
		return
	}
	// the preview is read in the background; poll GET /seller/draft for it
	respond(w, http.StatusAccepted, h.draftView())
}

func (h *Handler) submitProduct(w http.ResponseWriter, r *http.Request) {
	if err := validation.Struct(h.workflow.Draft()); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"errors": err})
		return
	}
	p, err := h.workflow.Submit(r.Context())
	switch {
	case errors.Is(err, ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, err.Error())
	case err != nil:
		respondError(w, http.StatusBadGateway, MsgSubmitFailed)
	default:
		respond(w, http.StatusCreated, h.products.View(p))
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	list := h.workflow.Products()
	views := make([]product.View, 0, len(list))
	for _, p := range list {
		views = append(views, h.products.View(p))
	}
	respond(w, http.StatusOK, views)
}

func (h *Handler) commission(w http.ResponseWriter, r *http.Request) {
	price := r.URL.Query().Get("price")
	respond(w, http.StatusOK, map[string]string{
		"price":      price,
		"commission": product.CommissionPreview(price),
	})
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.feed.Recent())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Session(r.Context())
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, sess)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}
