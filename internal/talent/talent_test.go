package talent_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/directory-service/internal/talent"
	"jobmate/directory-service/pkg/logging"
)

const maxResume = 5 << 20

var pdf = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << >>\n%%EOF\n")

type fakeWelcomer struct {
	mu    sync.Mutex
	calls []string
}

func (w *fakeWelcomer) SendWelcomeAsync(to, fullName string, departments []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, to+"|"+fullName+"|"+strings.Join(departments, ","))
}

type brokenRepo struct{ talent.Repository }

func (brokenRepo) Create(context.Context, talent.Profile, *talent.Resume) (talent.Profile, error) {
	return talent.Profile{}, errors.New("disk full")
}

func validRequest() talent.JoinRequest {
	return talent.JoinRequest{
		FullName:    "Ada Lovelace",
		Email:       "ada@example.com",
		Departments: []string{"Engineering", "Data"},
	}
}

// ── Validation ────────────────────────────────────────────────────────────

func TestJoinRequest_Validate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	cases := map[string]struct {
		mutate func(*talent.JoinRequest)
		msg    string
	}{
		"missing name":       {func(r *talent.JoinRequest) { r.FullName = "" }, talent.MsgFullNameRequired},
		"long name":          {func(r *talent.JoinRequest) { r.FullName = strings.Repeat("a", 201) }, talent.MsgFieldTooLong},
		"missing email":      {func(r *talent.JoinRequest) { r.Email = "" }, talent.MsgEmailInvalid},
		"bad email":          {func(r *talent.JoinRequest) { r.Email = "ada@" }, talent.MsgEmailInvalid},
		"bad linkedin":       {func(r *talent.JoinRequest) { r.LinkedInURL = "not a url" }, talent.MsgLinkedInInvalid},
		"no departments":     {func(r *talent.JoinRequest) { r.Departments = nil }, talent.MsgDepartmentsInvalid},
		"empty departments":  {func(r *talent.JoinRequest) { r.Departments = []string{} }, talent.MsgDepartmentsInvalid},
		"unknown department": {func(r *talent.JoinRequest) { r.Departments = []string{"Engineering", "Astrology"} }, talent.MsgDepartmentsInvalid},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			var ve *talent.ValidationError
			require.ErrorAs(t, req.Validate(), &ve)
			assert.Equal(t, tc.msg, ve.Msg)
		})
	}
}

func TestDecodeJoinRequest(t *testing.T) {
	req, err := talent.DecodeJoinRequest(map[string][]string{
		"full_name":    {"  Ada Lovelace "},
		"email":        {" ada@example.com"},
		"linkedin_url": {"https://linkedin.com/in/ada"},
		"location":     {"  "},
		"departments":  {`["Engineering","Data"]`},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", req.FullName)
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, "https://linkedin.com/in/ada", req.LinkedInURL)
	assert.Equal(t, "", req.Location)
	assert.Equal(t, []string{"Engineering", "Data"}, req.Departments)
	assert.False(t, req.IsSpam())
	assert.NoError(t, req.Validate())
}

func TestDecodeJoinRequest_BadDepartmentsJSON(t *testing.T) {
	_, err := talent.DecodeJoinRequest(map[string][]string{"departments": {"Engineering"}})

	var ve *talent.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, talent.MsgDepartmentsFormat, ve.Msg)
}

// ── Service ───────────────────────────────────────────────────────────────

func TestService_Join(t *testing.T) {
	repo := talent.NewMemoryRepository()
	welcome := &fakeWelcomer{}
	svc := talent.NewService(repo, welcome, maxResume, logging.NewNop())

	req := validRequest()
	req.Location = "Berlin"
	p, err := svc.Join(context.Background(), req, pdf)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	require.NotNil(t, p.Location)
	assert.Equal(t, "Berlin", *p.Location)
	assert.Nil(t, p.LinkedInURL)
	require.NotNil(t, p.ResumePath)
	assert.True(t, strings.HasSuffix(*p.ResumePath, ".pdf"))

	res, err := svc.Resume(context.Background(), *p.ResumePath)
	require.NoError(t, err)
	assert.Equal(t, pdf, res.Content)
	assert.Equal(t, "application/pdf", res.ContentType)

	assert.Equal(t, []string{"ada@example.com|Ada Lovelace|Engineering,Data"}, welcome.calls)
}

func TestService_JoinRejectsBadResume(t *testing.T) {
	svc := talent.NewService(talent.NewMemoryRepository(), nil, 64, logging.NewNop())

	var ve *talent.ValidationError
	_, err := svc.Join(context.Background(), validRequest(), []byte("plain text, not a pdf"))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, talent.MsgResumeNotPDF, ve.Msg)

	_, err = svc.Join(context.Background(), validRequest(), append(append([]byte{}, pdf...), make([]byte, 64)...))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, talent.MsgResumeTooLarge, ve.Msg)
}

func TestService_JoinStorageFailureSkipsEmail(t *testing.T) {
	welcome := &fakeWelcomer{}
	svc := talent.NewService(brokenRepo{}, welcome, maxResume, logging.NewNop())

	_, err := svc.Join(context.Background(), validRequest(), nil)
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, welcome.calls)
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := talent.NewMemoryRepository()
	svc := talent.NewService(repo, nil, maxResume, logging.NewNop())

	for _, name := range []string{"First", "Second", "Third"} {
		req := validRequest()
		req.FullName = name
		_, err := svc.Join(context.Background(), req, nil)
		require.NoError(t, err)
	}

	profiles, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "Third", profiles[0].FullName)
	assert.Equal(t, "First", profiles[2].FullName)

	_, err = svc.Resume(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, talent.ErrNotFound)
}

// ── HTTP ──────────────────────────────────────────────────────────────────

type form struct {
	fields map[string]string
	resume []byte
}

func (f form) request(t *testing.T) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range f.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if f.resume != nil {
		fw, err := mw.CreateFormFile("resume", "cv.pdf")
		require.NoError(t, err)
		_, err = fw.Write(f.resume)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/talent/join", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validForm() form {
	return form{fields: map[string]string{
		"full_name":   "Ada Lovelace",
		"email":       "ada@example.com",
		"departments": `["Engineering"]`,
	}}
}

func newServer(repo talent.Repository, welcome talent.Welcomer, adminToken string) *mux.Router {
	svc := talent.NewService(repo, welcome, maxResume, logging.NewNop())
	r := mux.NewRouter()
	talent.NewHandler(svc, adminToken, logging.NewNop()).RegisterRoutes(r, nil)
	return r
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestJoinHandler_Success(t *testing.T) {
	repo := talent.NewMemoryRepository()
	welcome := &fakeWelcomer{}
	r := newServer(repo, welcome, "")

	f := validForm()
	f.resume = pdf
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, f.request(t))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.NotNil(t, profiles[0].ResumePath)
	assert.Len(t, welcome.calls, 1)
}

func TestJoinHandler_Honeypot(t *testing.T) {
	repo := talent.NewMemoryRepository()
	welcome := &fakeWelcomer{}
	r := newServer(repo, welcome, "")

	f := validForm()
	f.fields["company_url"] = "https://spam.example"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, f.request(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	profiles, _ := repo.List(context.Background())
	assert.Empty(t, profiles)
	assert.Empty(t, welcome.calls)
}

func TestJoinHandler_ValidationErrors(t *testing.T) {
	cases := map[string]struct {
		edit func(*form)
		msg  string
	}{
		"no name":         {func(f *form) { delete(f.fields, "full_name") }, talent.MsgFullNameRequired},
		"bad email":       {func(f *form) { f.fields["email"] = "nope" }, talent.MsgEmailInvalid},
		"bad json":        {func(f *form) { f.fields["departments"] = "[Engineering" }, talent.MsgDepartmentsFormat},
		"no departments":  {func(f *form) { f.fields["departments"] = "[]" }, talent.MsgDepartmentsInvalid},
		"not a pdf":       {func(f *form) { f.resume = []byte("GIF89a not really") }, talent.MsgResumeNotPDF},
		"renamed non-pdf": {func(f *form) { f.resume = []byte("PK\x03\x04 zip archive") }, talent.MsgResumeNotPDF},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := validForm()
			tc.edit(&f)

			rec := httptest.NewRecorder()
			newServer(talent.NewMemoryRepository(), nil, "").ServeHTTP(rec, f.request(t))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.msg, errorMessage(t, rec))
		})
	}
}

func TestJoinHandler_ResumeTooLarge(t *testing.T) {
	f := validForm()
	f.resume = append(append([]byte{}, pdf...), make([]byte, maxResume)...)

	rec := httptest.NewRecorder()
	newServer(talent.NewMemoryRepository(), nil, "").ServeHTTP(rec, f.request(t))

	assert.Contains(t, []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge}, rec.Code)
	assert.Equal(t, talent.MsgResumeTooLarge, errorMessage(t, rec))
}

func TestJoinHandler_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/talent/join", strings.NewReader(`{"full_name":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	newServer(talent.NewMemoryRepository(), nil, "").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinHandler_StorageFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(brokenRepo{}, nil, "").ServeHTTP(rec, validForm().request(t))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdmin(t *testing.T) {
	repo := talent.NewMemoryRepository()
	r := newServer(repo, nil, "s3cret")

	f := validForm()
	f.resume = pdf
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, f.request(t))
	require.Equal(t, http.StatusOK, rec.Code)

	get := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, get("/admin/talent", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get("/admin/talent", "wrong").Code)

	rec = get("/admin/talent", "s3cret")
	require.Equal(t, http.StatusOK, rec.Code)
	var profiles []talent.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profiles))
	require.Len(t, profiles, 1)
	require.NotNil(t, profiles[0].ResumePath)

	rec = get("/admin/talent/resumes/"+*profiles[0].ResumePath, "s3cret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, pdf, rec.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, get("/admin/talent/resumes/missing.pdf", "s3cret").Code)
}

func TestAdmin_DisabledWithoutToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/talent", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	newServer(talent.NewMemoryRepository(), nil, "").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
