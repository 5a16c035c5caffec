package httpapi

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hupe1980/shapeset/dataset"
	"github.com/hupe1980/shapeset/feature"
	"github.com/hupe1980/shapeset/persistence"
	"github.com/hupe1980/shapeset/samplestore"
)

var errMalformedImage = errors.New("malformed image data")

type indexData struct {
	Labels   []string
	Selected string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	labels := s.svc.Labels()
	selected := r.URL.Query().Get("label")
	if selected == "" && len(labels) > 0 {
		selected = labels[0]
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, indexData{Labels: labels, Selected: selected}); err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.svc.AllowIngest() {
		http.Error(w, "too many uploads, slow down", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}

	label := formValue(r, "label", "numero")
	if label == "" {
		s.fail(w, r, http.StatusBadRequest, errors.New("missing label"))
		return
	}

	raw, err := uploadedImage(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	name, err := s.svc.Ingest(r.Context(), label, raw)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, samplestore.ErrUnknownLabel) || errors.Is(err, samplestore.ErrEmptySample) {
			status = http.StatusBadRequest
		}
		s.fail(w, r, status, err)
		return
	}

	if wantsJSON(r) {
		s.writeJSON(w, r, http.StatusCreated, map[string]string{"name": name})
		return
	}
	http.Redirect(w, r, "/?label="+url.QueryEscape(label), http.StatusSeeOther)
}

func (s *Server) handlePrepare(w http.ResponseWriter, r *http.Request) {
	ds, err := s.svc.Build(r.Context())
	if err != nil {
		var de *feature.DecodeError
		switch {
		case errors.Is(err, dataset.ErrEmptyDataset):
			writeText(w, http.StatusOK, "No images yet")
		case errors.Is(err, dataset.ErrShapeMismatch), errors.As(err, &de):
			s.fail(w, r, http.StatusUnprocessableEntity, err)
		default:
			s.fail(w, r, http.StatusInternalServerError, err)
		}
		return
	}
	writeText(w, http.StatusOK, ds.Summary())
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.svc.Counts(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, counts)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	kind, err := persistence.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := s.svc.Artifact(r.Context(), kind)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			http.Error(w, "dataset not prepared yet", http.StatusNotFound)
			return
		}
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kind.String()+".bin"))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := s.codec.Marshal(v)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// formValue returns the first non-empty form value among keys.
func formValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.FormValue(k)); v != "" {
			return v
		}
	}
	return ""
}

// uploadedImage reads the drawing either from a data URL / base64 field or
// from a multipart file part.
func uploadedImage(r *http.Request) ([]byte, error) {
	if v := formValue(r, "image", "myImage"); v != "" {
		return decodeDataURL(v)
	}
	for _, k := range []string{"image", "myImage"} {
		f, _, err := r.FormFile(k)
		if err != nil {
			continue
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return nil, fmt.Errorf("%w: missing image", errMalformedImage)
}

// decodeDataURL accepts "data:<mime>;base64,<payload>" or bare base64.
func decodeDataURL(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s[len("data:"):], ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("%w: unsupported data URL", errMalformedImage)
		}
		s = payload
	}
	// Unescaped '+' in urlencoded bodies arrives as a space.
	s = strings.ReplaceAll(s, " ", "+")

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if raw, err = base64.RawStdEncoding.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%w: %w", errMalformedImage, err)
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty image", errMalformedImage)
	}
	return raw, nil
}
