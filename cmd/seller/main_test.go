package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/georgemunganga/printa-storefront/internal/apitest"
	"github.com/georgemunganga/printa-storefront/internal/tokenstore"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd, cleanup := newRootCmd()
	defer cleanup()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useFakeAPI(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer(t)
	t.Setenv("API_URL", srv.BaseURL)
	t.Setenv("TOKEN_STORE", "memory")
	t.Setenv("LOG_MODE", "production")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return srv
}

func TestCommissionCommand(t *testing.T) {
	out, err := run(t, "commission", "100.00")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2.50") {
		t.Errorf("output = %q", out)
	}
}

func TestProductsCreateAndList(t *testing.T) {
	srv := useFakeAPI(t)
	srv.NextProductID("p1")

	out, err := run(t, "products", "create", "--name", "Widget", "--description", "A widget", "--price", "100.00")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out, "Commission: 2.50") || !strings.Contains(out, "p1") {
		t.Errorf("create output = %q", out)
	}

	out, err = run(t, "products", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Widget") || !strings.Contains(out, "100.00") {
		t.Errorf("list output = %q", out)
	}
}

func TestProductsCreateRejectsInvalidDraft(t *testing.T) {
	srv := useFakeAPI(t)
	_, err := run(t, "products", "create", "--name", "Widget", "--price", "cheap")
	if err == nil || !strings.Contains(err.Error(), "price") {
		t.Fatalf("err = %v", err)
	}
	if len(srv.Products()) != 0 {
		t.Error("invalid draft was submitted")
	}
}

func TestReviewsAddValidatesRating(t *testing.T) {
	srv := useFakeAPI(t)
	p := srv.AddProduct("Widget", "5.00")

	if _, err := run(t, "reviews", "add", p.ID, "--rating", "9", "--comment", "wow"); err == nil {
		t.Error("rating 9 accepted")
	}
	out, err := run(t, "reviews", "add", p.ID, "--rating", "4", "--comment", "solid")
	if err != nil || !strings.Contains(out, "saved") {
		t.Fatalf("add = %q, %v", out, err)
	}
	out, err = run(t, "reviews", "list", p.ID)
	if err != nil || !strings.Contains(out, "solid") {
		t.Errorf("list = %q, %v", out, err)
	}
}

func TestDescribeServerError(t *testing.T) {
	useFakeAPI(t)
	_, err := run(t, "products", "get", "missing")
	if got := describe(err); got != "Product not found (HTTP 404)" {
		t.Errorf("describe = %q", got)
	}
}

func TestFailedCommandReleasesTokenStore(t *testing.T) {
	useFakeAPI(t)
	t.Setenv("TOKEN_STORE", "bolt")
	t.Setenv("TOKEN_PATH", filepath.Join(t.TempDir(), "seller.db"))

	if _, err := run(t, "products", "get", "missing"); err == nil {
		t.Fatal("expected a 404")
	}
	// a leaked bolt handle makes the next open time out on the file lock
	store, err := tokenstore.NewBolt(os.Getenv("TOKEN_PATH"))
	if err != nil {
		t.Fatalf("reopen token store: %v", err)
	}
	store.Close()

	if _, err := run(t, "logout"); err != nil {
		t.Fatalf("logout after failure: %v", err)
	}
}
