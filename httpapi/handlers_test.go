package httpapi

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hupe1980/shapeset"
	"github.com/hupe1980/shapeset/blobstore"
	"github.com/hupe1980/shapeset/codec"
	"github.com/hupe1980/shapeset/dataset"
	"github.com/hupe1980/shapeset/persistence"
	"github.com/hupe1980/shapeset/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg shapeset.Config) (*Server, *shapeset.Service) {
	t.Helper()
	svc, err := shapeset.New(cfg, blobstore.NewMemoryStore())
	require.NoError(t, err)
	return New(svc), svc
}

func dataURL(raw []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

func postForm(t *testing.T, h http.Handler, form url.Values, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t, shapeset.DefaultConfig())

	rec := get(t, srv, "/?label=rombo")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="rombo" selected>`)
	assert.Contains(t, body, `data-label="corazon"`)
	assert.Contains(t, body, `id="label" name="label" type="hidden" value="rombo"`)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestUpload_RedirectAndCounts(t *testing.T) {
	srv, svc := newTestServer(t, shapeset.DefaultConfig())
	raw := testutil.NewRNG(1).DrawingPNG(8, 8)

	rec := postForm(t, srv, url.Values{"numero": {"corazon"}, "myImage": {dataURL(raw)}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?label=corazon", rec.Header().Get("Location"))

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts["corazon"])

	rec = get(t, srv, "/counts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]int
	require.NoError(t, codec.Default.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]int{"estrella": 0, "corazon": 1, "rombo": 0}, got)
}

func TestUpload_JSON(t *testing.T) {
	srv, _ := newTestServer(t, shapeset.DefaultConfig())
	raw := testutil.NewRNG(1).DrawingPNG(8, 8)

	rec := postForm(t, srv, url.Values{"label": {"estrella"}, "image": {base64.StdEncoding.EncodeToString(raw)}}, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, codec.Default.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["name"], "samples/estrella/"))
}

func TestUpload_Multipart(t *testing.T) {
	srv, svc := newTestServer(t, shapeset.DefaultConfig())
	raw := testutil.NewRNG(1).DrawingPNG(8, 8)

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("numero", "rombo"))
	fw, err := mw.CreateFormFile("image", "drawing.png")
	require.NoError(t, err)
	_, err = fw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts["rombo"])
}

func TestUpload_BadRequests(t *testing.T) {
	srv, svc := newTestServer(t, shapeset.DefaultConfig())
	png := dataURL(testutil.NewRNG(1).DrawingPNG(4, 4))

	tests := map[string]url.Values{
		"missing label":  {"image": {png}},
		"unknown label":  {"label": {"triangulo"}, "image": {png}},
		"missing image":  {"label": {"estrella"}},
		"bad base64":     {"label": {"estrella"}, "image": {"data:image/png;base64,@@@"}},
		"bad data url":   {"label": {"estrella"}, "image": {"data:image/png,abc"}},
		"empty data url": {"label": {"estrella"}, "image": {"data:image/png;base64,"}},
	}
	for name, form := range tests {
		t.Run(name, func(t *testing.T) {
			rec := postForm(t, srv, form, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"estrella": 0, "corazon": 0, "rombo": 0}, counts)
}

func TestUpload_RateLimited(t *testing.T) {
	cfg := shapeset.DefaultConfig()
	cfg.IngestPerSecond = 0.001
	cfg.IngestBurst = 1
	srv, _ := newTestServer(t, cfg)
	form := url.Values{"label": {"estrella"}, "image": {dataURL(testutil.NewRNG(1).DrawingPNG(4, 4))}}

	assert.Equal(t, http.StatusSeeOther, postForm(t, srv, form, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, postForm(t, srv, form, "").Code)
}

func TestPrepareAndDownload(t *testing.T) {
	srv, _ := newTestServer(t, shapeset.DefaultConfig())
	rng := testutil.NewRNG(3)

	rec := get(t, srv, "/prepare")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No images yet", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/dataset/features").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/dataset/weights").Code)

	for _, label := range []string{"estrella", "estrella", "rombo"} {
		form := url.Values{"label": {label}, "image": {dataURL(rng.DrawingPNG(4, 4))}}
		require.Equal(t, http.StatusSeeOther, postForm(t, srv, form, "").Code)
	}

	rec = get(t, srv, "/prepare")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dataset ready. X.shape = (3, 16), y.shape = (3,)", rec.Body.String())

	rec = get(t, srv, "/dataset/features")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "features.bin")
	features, _, err := persistence.DecodeFeatures(rec.Body.Bytes())
	require.NoError(t, err)
	r, c := features.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 16, c)

	rec = get(t, srv, "/dataset/labels")
	require.Equal(t, http.StatusOK, rec.Code)
	labels, _, err := persistence.DecodeLabels(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"estrella", "estrella", "rombo"}, labels)
}

func TestPrepare_ShapeMismatch(t *testing.T) {
	srv, _ := newTestServer(t, shapeset.DefaultConfig())
	rng := testutil.NewRNG(3)

	for _, size := range []int{4, 5} {
		form := url.Values{"label": {"corazon"}, "image": {dataURL(rng.DrawingPNG(size, size))}}
		require.Equal(t, http.StatusSeeOther, postForm(t, srv, form, "").Code)
	}

	assert.Equal(t, http.StatusUnprocessableEntity, get(t, srv, "/prepare").Code)
}

func TestPrepare_DecodeError(t *testing.T) {
	srv, _ := newTestServer(t, shapeset.DefaultConfig())
	form := url.Values{"label": {"rombo"}, "image": {base64.StdEncoding.EncodeToString([]byte("not a png"))}}
	require.Equal(t, http.StatusSeeOther, postForm(t, srv, form, "").Code)

	assert.Equal(t, http.StatusUnprocessableEntity, get(t, srv, "/prepare").Code)
}

type brokenService struct{ Service }

func (brokenService) Build(context.Context) (*dataset.Dataset, error) {
	return nil, errors.New("disk on fire")
}

func (brokenService) Counts(context.Context) (map[string]int, error) {
	return nil, errors.New("disk on fire")
}

func TestServerErrors(t *testing.T) {
	srv := New(brokenService{})

	assert.Equal(t, http.StatusInternalServerError, get(t, srv, "/prepare").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, srv, "/counts").Code)
}

func TestWithHandler(t *testing.T) {
	srv := New(brokenService{}, WithHandler("GET /metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})))

	rec := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestDecodeDataURL(t *testing.T) {
	got, err := decodeDataURL("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	got, err = decodeDataURL("aGVsbG8")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	got, err = decodeDataURL(" //+")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfb, 0xff, 0xfe}, got)

	_, err = decodeDataURL("data:text/plain,hello")
	require.ErrorIs(t, err, errMalformedImage)
}
