package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/cargodesk/internal/common"
)

// Request describes one logical backend call. Path is relative to the
// client's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	// JSON is marshalled as the body when set.
	JSON any
	// Form is sent as multipart/form-data when set; it wins over JSON.
	Form *Form

	// retried is set once the request has been replayed after a refresh.
	retried bool
	// token overrides the stored access token, used for the replay.
	token string
}

type FormField struct {
	Name  string
	Value string
}

type FormFile struct {
	Field    string
	FileName string
	Content  []byte
}

type Form struct {
	Fields []FormField
	Files  []FormFile
}

func NewJSONRequest(method, path string, body any) *Request {
	return &Request{Method: method, Path: path, JSON: body}
}

func NewFormRequest(method, path string, form *Form) *Request {
	return &Request{Method: method, Path: path, Form: form}
}

// encode renders the body once so a replay sends the same bytes.
func (r *Request) encode() ([]byte, string, error) {
	switch {
	case r.Form != nil:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, f := range r.Form.Fields {
			if err := w.WriteField(f.Name, f.Value); err != nil {
				return nil, "", fmt.Errorf("write form field %s: %w", f.Name, err)
			}
		}
		for _, f := range r.Form.Files {
			part, err := w.CreateFormFile(f.Field, f.FileName)
			if err != nil {
				return nil, "", fmt.Errorf("create form file %s: %w", f.Field, err)
			}
			if _, err := part.Write(f.Content); err != nil {
				return nil, "", fmt.Errorf("write form file %s: %w", f.Field, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("close form: %w", err)
		}
		return buf.Bytes(), w.FormDataContentType(), nil
	case r.JSON != nil:
		b, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return b, common.ContentTypeJSON, nil
	default:
		return nil, "", nil
	}
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
