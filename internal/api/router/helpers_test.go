package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/cuongbtq/skillbridge/internal/api/auth"
	"github.com/cuongbtq/skillbridge/internal/api/handler"
	"github.com/cuongbtq/skillbridge/internal/api/storage/storagetest"
	"github.com/cuongbtq/skillbridge/internal/api/upload"
	"github.com/cuongbtq/skillbridge/shared/objectstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	pdfBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

type testServer struct {
	router    *gin.Engine
	store     *storagetest.Memory
	objects   *objectStore
	events    *eventRecorder
	denylist  *denylist
	deps      *handler.Dependencies
	clockTime time.Time
}

// objectStore keeps uploads in memory
type objectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *objectStore) Put(_ context.Context, r io.Reader, obj objectstore.Object) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := obj.Folder + "/" + obj.PublicID
	s.objects[key] = b
	return "https://cdn.test/" + key, nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []activity.Event
}

func (r *eventRecorder) Publish(_ context.Context, e activity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type denylist struct {
	mu   sync.Mutex
	keys map[string]time.Duration
}

func (d *denylist) SetWithTTL(_ context.Context, key, _ string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[key] = ttl
	return nil
}

func (d *denylist) Exists(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.keys[key]
	return ok, nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		store:     storagetest.NewMemory(),
		objects:   &objectStore{objects: map[string][]byte{}},
		events:    &eventRecorder{},
		denylist:  &denylist{keys: map[string]time.Duration{}},
		clockTime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	// every call gets a strictly later timestamp
	clock := func() time.Time {
		ts.clockTime = ts.clockTime.Add(time.Second)
		return ts.clockTime
	}

	ts.deps = &handler.Dependencies{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:     ts.store,
		Tokens:    auth.NewTokenService("test-secret", time.Hour).WithClock(clock),
		Passwords: auth.NewPasswordHasher(bcrypt.MinCost),
		Revoker:   auth.NewKVRevoker(ts.denylist),
		Uploader: upload.NewUploader(ts.objects, upload.Folders{
			Profiles: "profiles", Resumes: "resumes", Logos: "logos",
		}, 0),
		Publisher: ts.events,
		Cookie:    handler.CookieConfig{Name: "token"},
		Now:       clock,
	}

	ts.router = SetupRouter(ts.deps, Options{
		ServiceName:    "api-service",
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

type formFile struct {
	field, name string
	content     []byte
}

func (ts *testServer) doMultipart(t *testing.T, method, path string, fields map[string]string, files []formFile, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatalf("no token cookie in response")
	return nil
}

func (ts *testServer) register(t *testing.T, fullname, email, role string) {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/v1/user/register", map[string]string{
		"fullname":    fullname,
		"email":       email,
		"phoneNumber": "0123456789",
		"password":    "s3cret",
		"role":        role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (ts *testServer) login(t *testing.T, email, role string) (token, userID string) {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/v1/user/login", map[string]string{
		"email":    email,
		"password": "s3cret",
		"role":     role,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user := decodeBody(t, w)["user"].(map[string]any)
	return sessionCookie(t, w).Value, user["_id"].(string)
}

func (ts *testServer) signUp(t *testing.T, fullname, email, role string) (token, userID string) {
	t.Helper()
	ts.register(t, fullname, email, role)
	return ts.login(t, email, role)
}

func (ts *testServer) registerCompany(t *testing.T, token, name string) string {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/v1/company/register", map[string]string{"companyName": name}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["company"].(map[string]any)["_id"].(string)
}

func jobPayload(title, companyID string) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "Design and build services",
		"requirements": "Go, SQL , ,Docker",
		"salary":       1500,
		"location":     "Hanoi",
		"jobType":      "Full-time",
		"experience":   2,
		"position":     1,
		"companyId":    companyID,
	}
}

func (ts *testServer) postJob(t *testing.T, token string, payload map[string]any) string {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/v1/job/post", payload, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["job"].(map[string]any)["_id"].(string)
}
