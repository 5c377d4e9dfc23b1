package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	e "github.com/julianlk522/miniface/error"
	"github.com/julianlk522/miniface/model"
)

const (
	IMAGE_FORM_FIELD   = "image"
	CONTENT_FORM_FIELD = "content"
	AUTHOR_FORM_FIELD  = "author_email"
)

// ParseRequest builds a Payload from a form or JSON request. Form fields
// win; the JSON body is only read when the form supplied no content.
// A multipart "image" part always takes priority over JSON-encoded images.
func ParseRequest(r *http.Request, max_memory int64) (*Payload, error) {
	media_type, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		media_type = ""
	}

	p := &Payload{}

	switch media_type {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(max_memory); err != nil {
			return nil, bodyError(err)
		}
		readFormFields(p, r.MultipartForm.Value)

		if src, err := MultipartFileFromForm(r.MultipartForm, IMAGE_FORM_FIELD); err != nil {
			return nil, err
		} else if src != nil {
			p.Image = *src
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		readFormFields(p, r.PostForm)
	}

	if p.Content == nil && media_type == "application/json" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, bodyError(err)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return p, nil
		}

		req := &model.AutomationPostRequest{}
		if err := json.Unmarshal(body, req); err != nil {
			return nil, fmt.Errorf("%w: %s", e.ErrMalformedPayload, err)
		}

		if err := applyJSONPayload(p, req); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Oversized bodies keep their *http.MaxBytesError; anything else
// is a malformed request.
func bodyError(err error) error {
	var max_bytes_err *http.MaxBytesError
	if errors.As(err, &max_bytes_err) {
		return err
	}
	return fmt.Errorf("%w: %s", e.ErrMalformedPayload, err)
}

func readFormFields(p *Payload, values map[string][]string) {
	content := firstValue(values, CONTENT_FORM_FIELD)
	if content == "" {
		return
	}

	p.Content = &content
	p.AuthorEmail = firstValue(values, AUTHOR_FORM_FIELD)
}

func applyJSONPayload(p *Payload, req *model.AutomationPostRequest) error {
	p.Content = req.Content
	if req.AuthorEmail != nil {
		p.AuthorEmail = *req.AuthorEmail
	}

	if p.Image != nil {
		return nil
	}

	switch {
	case req.ImageBase64 != nil && strings.TrimSpace(*req.ImageBase64) != "":
		src := Base64Payload{Raw: *req.ImageBase64}
		if req.ImageFilename != nil {
			src.Filename = *req.ImageFilename
		}
		p.Image = src
	case len(req.ImageBinary) > 0:
		ref, err := ParseWorkflowBinaryRef(req.ImageBinary)
		if err != nil {
			return err
		}
		p.Image = ref
	}

	return nil
}

// MultipartFileFromForm reads the named file part. An empty part with no
// filename (browsers send one for an untouched file input) counts as absent.
func MultipartFileFromForm(form *multipart.Form, field string) (*MultipartFile, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}

	fh := headers[0]
	if fh.Size == 0 && fh.Filename == "" {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &MultipartFile{
		Bytes:               b,
		DeclaredContentType: fh.Header.Get("Content-Type"),
		Filename:            fh.Filename,
	}, nil
}

func firstValue(values map[string][]string, key string) string {
	if vs := values[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
