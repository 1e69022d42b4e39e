// Package apitest runs an in-process fake of the marketplace REST API for
// tests. It follows the backend contract: JSON errors under "detail",
// commission computed server-side, list endpoints returning bare arrays.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SigningKey signs the access tokens issued by the fake login endpoint.
var SigningKey = []byte("apitest-secret")

var commissionRate = decimal.RequireFromString("0.025")

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category"`
	ImagePath   *string         `json:"image_path"`
	Commission  decimal.Decimal `json:"commission"`
	SellerID    string          `json:"seller_id"`
	CreatedAt   time.Time       `json:"created_at"`

	ImageData []byte `json:"-"`
}

type User struct {
	ID        string    `json:"id"`
	IsSeller  bool      `json:"is_seller"`
	CreatedAt time.Time `json:"created_at"`
	pgpKey    string
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Server is a running fake API. BaseURL is what clients should be
// configured with.
type Server struct {
	*httptest.Server
	BaseURL string

	mu          sync.Mutex
	products    []*Product
	users       []*User
	reviews     []*Review
	authHeaders []string
	failures    []failure
	nextIDs     []string
	hold        chan struct{}
	entered     chan struct{}
}

type failure struct {
	status int
	detail string
}

// NewServer starts the fake under /api and closes it when the test ends.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{}
	r := chi.NewRouter()
	r.Use(s.recordAuth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Get("/products", s.listProducts)
		r.Post("/products", s.createProduct)
		r.Get("/products/{id}", s.getProduct)
		r.Delete("/products/{id}", s.deleteProduct)
		r.Post("/comments", s.createReview)
		r.Get("/comments/product/{id}", s.listReviews)
	})
	s.Server = httptest.NewServer(r)
	s.BaseURL = s.Server.URL + "/api"
	t.Cleanup(func() {
		s.Release()
		s.Server.Close()
	})
	return s
}

// FailNext makes the next request answer with status and detail.
func (s *Server) FailNext(status int, detail string) {
	s.mu.Lock()
	s.failures = append(s.failures, failure{status: status, detail: detail})
	s.mu.Unlock()
}

// NextProductID forces the id assigned to the next created product.
func (s *Server) NextProductID(id string) {
	s.mu.Lock()
	s.nextIDs = append(s.nextIDs, id)
	s.mu.Unlock()
}

// HoldCreates blocks product creation until Release is called. The
// returned channel receives once per create request that reached the hold.
func (s *Server) HoldCreates() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hold = make(chan struct{})
	s.entered = make(chan struct{}, 16)
	return s.entered
}

func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hold != nil {
		close(s.hold)
		s.hold = nil
	}
}

// AuthHeaders returns the Authorization header of every request seen, ""
// when absent.
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

func (s *Server) Products() []*Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Product(nil), s.products...)
}

// AddProduct seeds a product directly.
func (s *Server) AddProduct(name, price string) *Product {
	p := &Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		SellerID:  "temp_seller",
		CreatedAt: time.Now().UTC(),
	}
	p.Commission = p.Price.Mul(commissionRate).Round(2)
	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	return p
}

func (s *Server) recordAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
		var f *failure
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()
		if f != nil {
			detail(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PGPKey   string `json:"pgp_key"`
		IsSeller bool   `json:"is_seller"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PGPKey == "" {
		detail(w, http.StatusUnprocessableEntity, "pgp_key is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.pgpKey == req.PGPKey {
			detail(w, http.StatusBadRequest, "PGP key already registered")
			return
		}
	}
	u := &User{ID: uuid.NewString(), IsSeller: req.IsSeller, CreatedAt: time.Now().UTC(), pgpKey: req.PGPKey}
	s.users = append(s.users, u)
	respond(w, http.StatusOK, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PGPKey string `json:"pgp_key"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.mu.Lock()
	var user *User
	for _, u := range s.users {
		if u.pgpKey == req.PGPKey {
			user = u
		}
	}
	s.mu.Unlock()
	if user == nil {
		detail(w, http.StatusUnauthorized, "Invalid PGP key")
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       user.ID,
		"is_seller": user.IsSeller,
		"exp":       time.Now().Add(30 * time.Minute).Unix(),
	})
	signed, err := token.SignedString(SigningKey)
	if err != nil {
		detail(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"access_token": signed, "token_type": "bearer"})
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	hold, entered := s.hold, s.entered
	s.mu.Unlock()
	if hold != nil {
		entered <- struct{}{}
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		detail(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil || r.FormValue("name") == "" {
		detail(w, http.StatusUnprocessableEntity, "invalid product form")
		return
	}

	s.mu.Lock()
	id := uuid.NewString()
	if len(s.nextIDs) > 0 {
		id, s.nextIDs = s.nextIDs[0], s.nextIDs[1:]
	}
	s.mu.Unlock()

	p := &Product{
		ID:          id,
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Commission:  price.Mul(commissionRate).Round(2),
		SellerID:    "temp_seller",
		CreatedAt:   time.Now().UTC(),
	}
	if f, fh, err := r.FormFile("image"); err == nil {
		data, _ := io.ReadAll(f)
		f.Close()
		path := id + filepath.Ext(fh.Filename)
		p.ImagePath = &path
		p.ImageData = data
	}

	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	respond(w, http.StatusOK, p)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	skip, limit := paging(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	respond(w, http.StatusOK, window(s.products, skip, limit))
}

func (s *Server) findProduct(id string) *Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProduct(chi.URLParam(r, "id"))
	if p == nil {
		detail(w, http.StatusNotFound, "Product not found")
		return
	}
	respond(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			respond(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
			return
		}
	}
	detail(w, http.StatusNotFound, "Product not found")
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid review")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findProduct(req.ProductID) == nil {
		detail(w, http.StatusNotFound, "Product not found")
		return
	}
	rv := &Review{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		UserID:    "temp_user",
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	s.reviews = append(s.reviews, rv)
	respond(w, http.StatusOK, rv)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	skip, limit := paging(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findProduct(id) == nil {
		detail(w, http.StatusNotFound, "Product not found")
		return
	}
	var matched []*Review
	for _, rv := range s.reviews {
		if rv.ProductID == id {
			matched = append(matched, rv)
		}
	}
	respond(w, http.StatusOK, window(matched, skip, limit))
}

func paging(r *http.Request) (int, int) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 10
	}
	return skip, limit
}

func window[T any](items []T, skip, limit int) []T {
	out := []T{}
	for i := skip; i < len(items) && len(out) < limit; i++ {
		out = append(out, items[i])
	}
	return out
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func detail(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"detail": msg})
}
