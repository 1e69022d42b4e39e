package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/georgemunganga/printa-storefront/internal/tokenstore"
)

type failingStore struct{ tokenstore.Memory }

func (*failingStore) Token(context.Context) (string, error) { return "", errors.New("disk gone") }

func TestBearerHeaderAttachedOnlyWithToken(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		_, present := r.Header["Authorization"]
		if !present {
			got[len(got)-1] = "<absent>"
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	store := tokenstore.NewMemory("")
	c := New(srv.URL, store)
	ctx := context.Background()

	if err := c.Get(ctx, PathProducts, nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = store.SetToken(ctx, "tok-123")
	if err := c.PostJSON(ctx, PathReviews, map[string]int{"rating": 5}, nil); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	form := &MultipartForm{}
	form.AddField("name", "Widget")
	if err := c.PostMultipart(ctx, PathProducts, form, nil); err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if err := c.Delete(ctx, ProductPath("p1"), nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_ = store.Clear(ctx)
	if err := c.Get(ctx, PathProducts, nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}

	want := []string{"<absent>", "Bearer tok-123", "Bearer tok-123", "Bearer tok-123", "<absent>"}
	if len(got) != len(want) {
		t.Fatalf("got %d requests, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request %d Authorization = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPageQueryOffset(t *testing.T) {
	cases := []struct {
		page, limit int
		skip, lim   string
	}{
		{2, 10, "10", "10"},
		{1, 10, "0", "10"},
		{3, 25, "50", "25"},
		{0, 0, "0", "10"},
		{-4, 5, "0", "5"},
	}
	for _, tc := range cases {
		q := PageQuery(tc.page, tc.limit)
		if q.Get("skip") != tc.skip || q.Get("limit") != tc.lim {
			t.Errorf("PageQuery(%d,%d) = skip %s limit %s, want %s/%s",
				tc.page, tc.limit, q.Get("skip"), q.Get("limit"), tc.skip, tc.lim)
		}
	}
}

func TestServerErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/detail":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Content flagged as potentially unsafe"}`))
		case "/message":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"status":403,"message":"Seller privileges required"}`))
		case "/list":
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"detail":[{"loc":["body","price"],"msg":"field required"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`<html>oops</html>`))
		}
	}))
	defer srv.Close()
	c := New(srv.URL, tokenstore.NewMemory(""))

	cases := map[string]struct {
		status int
		msg    string
	}{
		"/detail":  {400, "Content flagged as potentially unsafe"},
		"/message": {403, "Seller privileges required"},
		"/list":    {422, "An error occurred"},
		"/html":    {500, "An error occurred"},
	}
	for path, want := range cases {
		err := c.Get(context.Background(), path, nil, nil)
		if !IsServer(err) {
			t.Fatalf("%s: kind = %q, want server", path, KindOf(err))
		}
		if StatusOf(err) != want.status || err.Error() != want.msg {
			t.Errorf("%s: got %d %q, want %d %q", path, StatusOf(err), err.Error(), want.status, want.msg)
		}
	}
}

func TestNoResponseError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url, tokenstore.NewMemory("")).Get(context.Background(), PathProducts, nil, nil)
	if !IsNoResponse(err) {
		t.Fatalf("kind = %q, want no_response (%v)", KindOf(err), err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "No response from server" {
		t.Errorf("message = %v", err)
	}
}

func TestSetupErrors(t *testing.T) {
	err := New("://no-scheme", tokenstore.NewMemory("")).Get(context.Background(), PathProducts, nil, nil)
	if !IsSetup(err) {
		t.Errorf("bad base URL: kind = %q, want setup", KindOf(err))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent when the token store fails")
	}))
	defer srv.Close()
	err = New(srv.URL, &failingStore{}).Get(context.Background(), PathProducts, nil, nil)
	if !IsSetup(err) {
		t.Errorf("token read failure: kind = %q, want setup", KindOf(err))
	}

	err = New(srv.URL, tokenstore.NewMemory("")).PostJSON(context.Background(), PathReviews, make(chan int), nil)
	if !IsSetup(err) {
		t.Errorf("unencodable body: kind = %q, want setup", KindOf(err))
	}
}

func TestTimeoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := New(srv.URL, tokenstore.NewMemory("")).Get(ctx, PathProducts, nil, nil)
	if !IsTimeout(err) {
		t.Fatalf("kind = %q, want timeout (%v)", KindOf(err), err)
	}
	if IsNoResponse(err) || IsServer(err) || IsSetup(err) {
		t.Error("timeout must be distinguishable from the other kinds")
	}
}

func TestMultipartBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if r.FormValue("name") != "Widget" || r.FormValue("price") != "100.00" {
			t.Errorf("fields = %v", r.MultipartForm.Value)
		}
		f, fh, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if fh.Filename != `we"ird.png` || string(data) != "PNGDATA" {
			t.Errorf("file = %q %q", fh.Filename, data)
		}
		if ct := fh.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("part Content-Type = %q", ct)
		}
		w.Write([]byte(`{"id":"p1"}`))
	}))
	defer srv.Close()

	form := &MultipartForm{}
	form.AddField("name", "Widget")
	form.AddField("price", "100.00")
	form.AddFile(FormFile{FieldName: "image", FileName: `we"ird.png`, ContentType: "image/png", Data: []byte("PNGDATA")})

	var out struct {
		ID string `json:"id"`
	}
	if err := New(srv.URL, tokenstore.NewMemory("")).PostMultipart(context.Background(), PathProducts, form, &out); err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if out.ID != "p1" {
		t.Errorf("id = %q", out.ID)
	}
}

func TestGetPageAcceptsArrayAndEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/array" {
			w.Write([]byte(`[{"id":"a"},{"id":"b"}]`))
			return
		}
		w.Write([]byte(`{"items":[{"id":"c"}],"total":11,"page":2,"limit":10,"total_pages":2}`))
	}))
	defer srv.Close()
	c := New(srv.URL, tokenstore.NewMemory(""))

	type item struct {
		ID string `json:"id"`
	}
	page, err := GetPage[item](context.Background(), c, "/array", 2, 10)
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	if len(page.Items) != 2 || page.Page != 2 || page.Limit != 10 {
		t.Errorf("array page = %+v", page)
	}

	page, err = GetPage[item](context.Background(), c, "/envelope", 2, 10)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if len(page.Items) != 1 || page.Total != 11 || page.TotalPages != 2 {
		t.Errorf("envelope page = %+v", page)
	}
}

func TestImageURL(t *testing.T) {
	c := New("http://localhost:8000/api/", tokenstore.NewMemory(""))
	if got := c.ImageURL("p1.png"); got != "http://localhost:8000/api/uploads/p1.png" {
		t.Errorf("ImageURL = %q", got)
	}
	if got := c.ImageURL(""); got != "" {
		t.Errorf("ImageURL(\"\") = %q", got)
	}
}

func TestEndpointPaths(t *testing.T) {
	if ProductPath("a/b") != "/products/a%2Fb" {
		t.Errorf("ProductPath = %q", ProductPath("a/b"))
	}
	if ProductReviewsPath("p1") != "/comments/product/p1" {
		t.Errorf("ProductReviewsPath = %q", ProductReviewsPath("p1"))
	}
}
