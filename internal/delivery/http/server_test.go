package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"blogsphere/config"
	"blogsphere/internal/delivery/http/middleware"
	"blogsphere/internal/delivery/http/router"
	"blogsphere/internal/delivery/http/router/handler"
	"blogsphere/internal/infra/auth"
	"blogsphere/internal/infra/content"
	"blogsphere/internal/infra/persistence/memory"
	"blogsphere/internal/infra/pubsub"
	"blogsphere/internal/infra/qrcode"
	"blogsphere/internal/infra/storage"
	"blogsphere/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

type inboxMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *inboxMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.codes[email] = code

	return nil
}

func (m *inboxMailer) code(t *testing.T, email string) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	code, ok := m.codes[email]
	require.True(t, ok, "no code sent to %s", email)

	return code
}

type apiEnv struct {
	e      *echo.Echo
	mailer *inboxMailer
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	cfg := &config.Config{
		Auth:    &config.AuthConfig{BcryptCost: bcrypt.MinCost, SessionTTL: time.Hour, PasswordMinLength: 6},
		OTP:     &config.OTPConfig{TTL: 10 * time.Minute, EnforceExpiry: true},
		Storage: &config.StorageConfig{MaxUploadBytes: 64 << 10},
	}
	cfg.SecretKey.Access = "test-secret"
	cfg.HTTP.PublicBaseURL = "https://blogsphere.test"
	cfg.HTTP.MaxRequestBodySize = "1M"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lc := fxtest.NewLifecycle(t)

	txManager := memory.NewTransactionManager(memory.NewStore())
	hasher := auth.NewBcryptHasher(cfg)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	publisher, err := pubsub.NewEventPublisher(pubsub.PublisherParams{Lc: lc, Ctx: context.Background(), Config: cfg, Logger: logger})
	require.NoError(t, err)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	mediaStorage := storage.NewBlobStorage(bucket, "")

	mailer := &inboxMailer{codes: make(map[string]string)}

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:     txManager,
		Hasher:        hasher,
		TokenService:  tokens,
		CodeGenerator: auth.NewCodeGenerator(),
		MailSender:    mailer,
		Config:        cfg,
		Logger:        logger,
	})
	profileUC := impl.NewProfileService(impl.ProfileServiceParams{TxManager: txManager, Hasher: hasher, Config: cfg, Logger: logger})
	blogUC := impl.NewBlogService(impl.BlogServiceParams{
		TxManager:     txManager,
		QRCodeService: qrcode.NewQRCodeService(256, "M"),
		Publisher:     publisher,
		Renderer:      content.NewContentRenderer(),
		Config:        cfg,
		Logger:        logger,
	})
	uploadUC := impl.NewUploadService(impl.UploadServiceParams{TxManager: txManager, Storage: mediaStorage, Config: cfg, Logger: logger})

	e := NewEcho(cfg, logger, router.RouterParams{
		AuthHandler:   handler.NewAuthHandler(authUC, logger),
		UserHandler:   handler.NewUserHandler(profileUC, blogUC, logger),
		BlogHandler:   handler.NewBlogHandler(blogUC, logger),
		UploadHandler: handler.NewUploadHandler(uploadUC, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthMiddlewareParams{
			TokenService: tokens,
			ProfileUC:    profileUC,
			Logger:       logger,
		}),
	})

	return &apiEnv{e: e, mailer: mailer}
}

func (env *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())

	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	body := decode(t, rec)
	info, ok := body["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())

	return info["code"].(string)
}

var annRegistration = map[string]string{
	"fullName": "Ann Lee",
	"username": "annlee",
	"email":    "ann@example.com",
	"password": "Secret123",
}

// signUp registers and verifies a user and returns their session token.
func (env *apiEnv) signUp(t *testing.T, username string) string {
	t.Helper()

	email := username + "@example.com"
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "User " + username,
		"username": username,
		"email":    email,
		"password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/auth/verify", "", map[string]string{"email": email, "otp": env.mailer.code(t, email)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return decode(t, rec)["token"].(string)
}

func TestAPI_RegistrationScenarios(t *testing.T) {
	env := newAPIEnv(t)

	// A: register dispatches an OTP and leaves the account unverified
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", annRegistration)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["success"])
	otp := env.mailer.code(t, "ann@example.com")
	assert.Len(t, otp, 6)

	// C (before): unverified login is refused
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@example.com", "password": "Secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Please verify your email first", decode(t, rec)["message"])

	// D: the email is taken
	rec = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Other Ann",
		"username": "otherann",
		"email":    "ann@example.com",
		"password": "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already in use", decode(t, rec)["message"])

	// B: the code verifies once
	rec = env.do(t, http.MethodPost, "/api/auth/verify", "", map[string]string{"email": "ann@example.com", "otp": otp})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "annlee", user["username"])
	assert.Equal(t, true, user["isVerified"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(t, http.MethodPost, "/api/auth/verify", "", map[string]string{"email": "ann@example.com", "otp": otp})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// C (after): login succeeds
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode(t, rec)["token"].(string)

	rec = env.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "ann@example.com", me["email"])

	// E: resend for a verified email
	rec = env.do(t, http.MethodPost, "/api/auth/resend-otp", "", map[string]string{"email": "ann@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is already verified", decode(t, rec)["message"])
}

func TestAPI_RequestValidation(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "a b", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rec))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))

	rec = env.do(t, http.MethodPost, "/api/auth/verify", "", map[string]string{"email": "ann@example.com", "otp": "12ab56"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rec))
}

func TestAPI_ProtectedRoutesRejectMissingOrBadTokens(t *testing.T) {
	env := newAPIEnv(t)

	for _, token := range []string{"", "not-a-jwt"} {
		rec := env.do(t, http.MethodGet, "/api/users/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Not authorized to access this route", decode(t, rec)["message"])
	}

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(`{"title":"t","content":"c"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_BlogLifecycle(t *testing.T) {
	env := newAPIEnv(t)
	annToken := env.signUp(t, "annlee")
	bobToken := env.signUp(t, "bobby")

	rec := env.do(t, http.MethodPost, "/api/blogs", annToken, map[string]any{
		"title":   "Hello",
		"content": "First post",
		"tags":    []string{"go", " go ", "web"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	blog := decode(t, rec)["data"].(map[string]any)
	blogID := blog["id"].(string)
	assert.Equal(t, []any{"go", "web"}, blog["tags"])
	assert.Equal(t, "annlee", blog["author"].(map[string]any)["username"])

	rec = env.do(t, http.MethodPut, "/api/blogs/"+blogID, bobToken, map[string]string{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	rec = env.do(t, http.MethodPut, "/api/blogs/like/"+blogID, bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode(t, rec)["data"].(map[string]any)["likesCount"])

	rec = env.do(t, http.MethodPut, "/api/blogs/like/"+blogID, bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["data"].(map[string]any)["likesCount"])

	rec = env.do(t, http.MethodPost, "/api/blogs/comment/"+blogID, bobToken, map[string]string{"text": "Nice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comments := decode(t, rec)["data"].(map[string]any)["comments"].([]any)
	require.Len(t, comments, 1)
	commentID := comments[0].(map[string]any)["id"].(string)

	rec = env.do(t, http.MethodPut, "/api/blogs/share/"+blogID, bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["data"].(map[string]any)["shares"])

	rec = env.do(t, http.MethodGet, "/api/blogs?tag=web", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	rec = env.do(t, http.MethodGet, "/api/users/annlee/blogs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	rec = env.do(t, http.MethodGet, "/api/blogs/"+blogID+"/qrcode", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	rec = env.do(t, http.MethodDelete, "/api/blogs/comment/"+blogID+"/"+commentID, annToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "the post owner may remove any comment")

	rec = env.do(t, http.MethodDelete, "/api/blogs/"+blogID, annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/blogs/"+blogID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blog not found", decode(t, rec)["message"])

	rec = env.do(t, http.MethodGet, "/api/blogs/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Subscriptions(t *testing.T) {
	env := newAPIEnv(t)
	annToken := env.signUp(t, "annlee")
	bobToken := env.signUp(t, "bobby")

	rec := env.do(t, http.MethodGet, "/api/users/annlee", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ann := decode(t, rec)["data"].(map[string]any)
	assert.NotContains(t, ann, "email")
	annID := ann["id"].(string)

	rec = env.do(t, http.MethodPut, "/api/users/subscribe/"+annID, bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["isSubscribed"])

	rec = env.do(t, http.MethodGet, "/api/users/check-subscription/"+annID, bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["isSubscribed"])
	assert.EqualValues(t, 1, body["subscribersCount"])

	rec = env.do(t, http.MethodPut, "/api/users/subscribe/"+annID, annToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ChangePassword(t *testing.T) {
	env := newAPIEnv(t)
	token := env.signUp(t, "annlee")

	rec := env.do(t, http.MethodPut, "/api/users/change-password", token, map[string]string{
		"currentPassword": "Wrong123",
		"newPassword":     "Brand-new1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	assert.Equal(t, "CURRENT_PASSWORD_INCORRECT", errorCode(t, rec))

	rec = env.do(t, http.MethodPut, "/api/users/change-password", token, map[string]string{
		"currentPassword": "Secret123",
		"newPassword":     "Brand-new1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "annlee@example.com", "password": "Secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "annlee@example.com", "password": "Brand-new1"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAPI_UploadAndServeMedia(t *testing.T) {
	env := newAPIEnv(t)
	token := env.signUp(t, "annlee")

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var data bytes.Buffer
	require.NoError(t, png.Encode(&data, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("profilePicture", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(data.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/profile", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	imageURL := decode(t, rec)["imageUrl"].(string)
	require.True(t, strings.HasPrefix(imageURL, "/media/blogsphere/profiles/"), imageURL)

	rec = env.do(t, http.MethodGet, imageURL, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, data.Bytes(), rec.Body.Bytes())

	rec = env.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, imageURL, decode(t, rec)["data"].(map[string]any)["profilePicture"])

	// Wrong field name
	body.Reset()
	writer = multipart.NewWriter(&body)
	_, err = writer.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/upload/profile", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UPLOAD_MISSING", errorCode(t, rec))
}

func TestAPI_HealthAndRequestID(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
