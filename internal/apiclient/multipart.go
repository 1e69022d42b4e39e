package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// FormField is one text part of a multipart body.
type FormField struct {
	Name  string
	Value string
}

// FormFile is one binary part of a multipart body.
type FormFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// MultipartForm is an ordered set of text fields followed by files.
type MultipartForm struct {
	Fields []FormField
	Files  []FormFile
}

func (f *MultipartForm) AddField(name, value string) {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
}

func (f *MultipartForm) AddFile(file FormFile) {
	f.Files = append(f.Files, file)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode renders the form and returns the body with its Content-Type
// (including the boundary).
func (f *MultipartForm) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.Fields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}
	for _, file := range f.Files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.FieldName), quoteEscaper.Replace(file.FileName)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.FieldName, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", file.FieldName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
