package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/database"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/handler"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/middleware"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/router"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/service"
)

// capturingMailer records outgoing links so tests can follow the
// verification and reset flows end to end.
type capturingMailer struct {
	mu                sync.Mutex
	verificationLinks []string
	resetLinks        []string
}

func (m *capturingMailer) SendVerificationEmail(_ context.Context, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verificationLinks = append(m.verificationLinks, link)
	return nil
}

func (m *capturingMailer) SendPasswordResetEmail(_ context.Context, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLinks = append(m.resetLinks, link)
	return nil
}

func (m *capturingMailer) lastVerificationLink(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.verificationLinks) == 0 {
		t.Fatal("no verification email was sent")
	}
	return m.verificationLinks[len(m.verificationLinks)-1]
}

func (m *capturingMailer) lastResetLink(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.resetLinks) == 0 {
		t.Fatal("no reset email was sent")
	}
	return m.resetLinks[len(m.resetLinks)-1]
}

type testServerOptions struct {
	authLimiter *middleware.RateLimiter
}

func newTestServer(t *testing.T) (string, *http.Client, *capturingMailer, func()) {
	return newTestServerWithOptions(t, testServerOptions{})
}

func newTestServerWithOptions(t *testing.T, opts testServerOptions) (string, *http.Client, *capturingMailer, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	users := repository.NewUserRepository(db)
	accounts := repository.NewAccountRepository(db)
	verificationTokens := repository.NewVerificationTokenRepository(db)
	resetTokens := repository.NewResetTokenRepository(db)
	notes := repository.NewNoteRepository(db)
	categories := repository.NewCategoryRepository(db)
	tags := repository.NewTagRepository(db)

	tokens := security.NewTokenManager("dump-pad", "dump-pad-web", "session-secret-0123456789abcdef", "email-secret-0123456789abcdef")
	cookies := security.NewCookieManager("", false, "lax")
	mailer := &capturingMailer{}

	tokenSvc := service.NewTokenService(verificationTokens, resetTokens, tokens, mailer, "https://dumppad.test", 24*time.Hour, time.Hour)
	linker := service.NewAccountLinker(users, accounts)
	authSvc := service.NewAuthService(users, tokenSvc, linker, service.OAuthProviderSet{})
	sessionSvc := service.NewSessionService(users, tokens, 720*time.Hour)
	profileSvc := service.NewProfileService(users, accounts)
	noteSvc := service.NewNoteService(notes, categories, tags)
	categorySvc := service.NewCategoryService(categories)
	tagSvc := service.NewTagService(tags)

	// No object store in these tests; avatar endpoints answer the
	// storage-disabled error.
	storageSvc := service.NewDisabledStorageService()

	deps := router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authSvc, sessionSvc, cookies, "state-secret-0123456789abcdef"),
		ProfileHandler:  handler.NewProfileHandler(profileSvc, sessionSvc, storageSvc, cookies),
		NoteHandler:     handler.NewNoteHandler(noteSvc),
		CategoryHandler: handler.NewCategoryHandler(categorySvc),
		TagHandler:      handler.NewTagHandler(tagSvc),
		Tokens:          tokens,
		AuthLimiter:     opts.authLimiter,
	}

	srv := httptest.NewServer(router.New(deps))

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return srv.URL, client, mailer, srv.Close
}

// newSecondClient builds a separate cookie jar so one test can act as two
// signed-in users against the same server.
func newSecondClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}, headers map[string]string) (*http.Response, apiEnvelope) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	var env apiEnvelope
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode envelope: %v body=%q", err, raw)
		}
	}
	return resp, env
}

func doRawText(t *testing.T, client *http.Client, method, url string, body interface{}, headers map[string]string) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return resp, string(raw)
}

func decodeData(t *testing.T, env apiEnvelope, dst interface{}) {
	t.Helper()
	if env.Data == nil {
		t.Fatalf("expected data in envelope, got none (error=%#v)", env.Error)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v raw=%q", err, env.Data)
	}
}

// linkToken extracts the token query parameter from an emailed link.
func linkToken(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse emailed link %q: %v", link, err)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("emailed link %q carries no token", link)
	}
	return token
}

func registerAndLogin(t *testing.T, client *http.Client, baseURL, mailerEmail, password string, mailer *capturingMailer) {
	t.Helper()

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/register", map[string]string{
		"name":     "Test User",
		"email":    mailerEmail,
		"password": password,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (error=%#v)", resp.StatusCode, env.Error)
	}

	token := linkToken(t, mailer.lastVerificationLink(t))
	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/auth/verify-email", map[string]string{"token": token}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify-email: expected 200, got %d (error=%#v)", resp.StatusCode, env.Error)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{
		"email":    mailerEmail,
		"password": password,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (error=%#v)", resp.StatusCode, env.Error)
	}
}
