package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/ports/adapter"

	"github.com/go-playground/form/v4"
	"github.com/shopspring/decimal"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = 64 << 20
)

// Date is a calendar date accepted as YYYY-MM-DD or RFC 3339.
type Date time.Time

func (d *Date) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date(t)
			return nil
		}
	}
	return fmt.Errorf("date %q: %w", s, domain.ErrInvalidArgument)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", domain.ErrInvalidArgument)
	}
	return d.UnmarshalText([]byte(s))
}

func (d *Date) Time() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

func isMultipart(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "multipart/form-data"
}

func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "multipart/form-data" || ct == "application/x-www-form-urlencoded"
}

// bind fills dst from a JSON body or from form fields (tag `form`), then validates it.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if isForm(r) {
		if err := parseForm(w, r); err != nil {
			return err
		}
		if err := bindForm(r, dst); err != nil {
			return err
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidArgument)
		}
	}
	return s.validator.Validate(dst)
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm != nil || r.PostForm != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(32 << 20)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("invalid form: %v: %w", err, domain.ErrInvalidArgument)
	}
	return nil
}

// formDecoder maps form fields onto request structs by their `form` tag.
// Types the decoder cannot build from reflection get a parse func here.
var formDecoder = newFormDecoder()

func newFormDecoder() *form.Decoder {
	dec := form.NewDecoder()
	dec.SetTagName("form")
	dec.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		var d Date
		err := d.UnmarshalText([]byte(vals[0]))
		return d, err
	}, Date{})
	dec.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		return decimal.NewFromString(strings.TrimSpace(vals[0]))
	}, decimal.Decimal{})
	dec.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		return splitList(vals), nil
	}, []string{})
	return dec
}

func bindForm(r *http.Request, dst interface{}) error {
	if err := formDecoder.Decode(dst, r.Form); err != nil {
		return fmt.Errorf("invalid form: %v: %w", err, domain.ErrInvalidArgument)
	}
	return nil
}

// splitList accepts repeated fields, a comma separated value or a JSON array.
func splitList(vals []string) []string {
	if len(vals) == 1 {
		v := strings.TrimSpace(vals[0])
		var arr []string
		if strings.HasPrefix(v, "[") && json.Unmarshal([]byte(v), &arr) == nil {
			return arr
		}
		vals = strings.Split(v, ",")
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// uploads opens multipart files and closes them when the handler is done.
type uploads struct {
	r    *http.Request
	open []multipart.File
}

func newUploads(r *http.Request) *uploads { return &uploads{r: r} }

func (u *uploads) headers(field string) []*multipart.FileHeader {
	if u.r.MultipartForm == nil {
		return nil
	}
	return u.r.MultipartForm.File[field]
}

// one returns the first file under field, or nil.
func (u *uploads) one(field string) (*adapter.Upload, error) {
	hs := u.headers(field)
	if len(hs) == 0 {
		return nil, nil
	}
	up, err := u.openHeader(hs[0])
	if err != nil {
		return nil, err
	}
	return &up, nil
}

func (u *uploads) many(fields ...string) ([]adapter.Upload, error) {
	var out []adapter.Upload
	for _, field := range fields {
		for _, h := range u.headers(field) {
			up, err := u.openHeader(h)
			if err != nil {
				return nil, err
			}
			out = append(out, up)
		}
	}
	return out, nil
}

func (u *uploads) openHeader(h *multipart.FileHeader) (adapter.Upload, error) {
	f, err := h.Open()
	if err != nil {
		return adapter.Upload{}, fmt.Errorf("open upload %s: %v: %w", h.Filename, err, domain.ErrInvalidArgument)
	}
	u.open = append(u.open, f)
	return adapter.Upload{
		Filename:    h.Filename,
		ContentType: h.Header.Get("Content-Type"),
		Size:        h.Size,
		Body:        f,
	}, nil
}

func (u *uploads) Close() {
	for _, f := range u.open {
		_ = f.Close()
	}
	u.open = nil
}
