package apiclient

import "net/url"

// Resource paths, relative to the configured API origin.
const (
	PathRegister = "/auth/register"
	PathLogin    = "/auth/login"
	PathProducts = "/products"
	PathReviews  = "/comments"
	PathUploads  = "/uploads/"
)

func ProductPath(id string) string {
	return PathProducts + "/" + url.PathEscape(id)
}

func ProductReviewsPath(productID string) string {
	return PathReviews + "/product/" + url.PathEscape(productID)
}
