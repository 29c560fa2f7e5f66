// Package netx builds HTTP request bodies for the catalog API.
package netx

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// FormField is a plain multipart text field.
type FormField struct {
	Name  string
	Value string
}

// FormFile is a multipart file part.
type FormFile struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// MultipartBody encodes fields (in order) followed by files as
// multipart/form-data. It returns the body and the Content-Type header value
// carrying the boundary.
func MultipartBody(fields []FormField, files []FormFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.FileName))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return body, w.FormDataContentType(), nil
}
