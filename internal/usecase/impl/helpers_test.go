package impl

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"blogsphere/config"
	"blogsphere/internal/domain/entity"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/domain/service"
	"blogsphere/internal/infra/auth"
	"blogsphere/internal/infra/content"
	"blogsphere/internal/infra/persistence/memory"
	"blogsphere/internal/infra/qrcode"
	"blogsphere/internal/infra/storage"
	mockSvc "blogsphere/internal/mocks/service"
	"blogsphere/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "secret123"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        bcrypt.MinCost,
			SessionTTL:        time.Hour,
			PasswordMinLength: 6,
		},
		OTP: &config.OTPConfig{
			TTL:           10 * time.Minute,
			EnforceExpiry: true,
		},
		Storage: &config.StorageConfig{
			MaxUploadBytes: 64 << 10,
		},
	}
	cfg.SecretKey.Access = "test-secret"
	cfg.HTTP.PublicBaseURL = "https://blogsphere.test"

	return cfg
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// captureMailer records the last code sent to every address.
type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
	err   error
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: make(map[string]string)}
}

func (m *captureMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.codes[email] = code
	m.sent++

	return nil
}

func (m *captureMailer) lastCode(t *testing.T, email string) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	code, ok := m.codes[email]
	require.True(t, ok, "no code sent to %s", email)

	return code
}

func (m *captureMailer) failWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

type fixture struct {
	cfg       *config.Config
	clock     *fakeClock
	mailer    *captureMailer
	publisher *mockSvc.MockEventPublisher
	tokens    service.TokenService
	hasher    service.PasswordHasher
	storage   service.MediaStorage
	txManager repository.TransactionManager

	auth    *authService
	profile *profileService
	blogs   *blogService
	uploads *uploadService
}

// newFixture wires every service to one in-memory store. The event publisher accepts
// any event; tests asserting on events build their own with newBlogService.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishBlogEvent(mock.Anything, mock.Anything).Return(nil).Maybe()

	return newFixtureWithPublisher(t, publisher)
}

func newFixtureWithPublisher(t *testing.T, publisher *mockSvc.MockEventPublisher) *fixture {
	t.Helper()

	cfg := newTestConfig()
	logger := newDiscardLogger()
	clock := newFakeClock()
	txManager := memory.NewTransactionManager(memory.NewStore())
	hasher := auth.NewBcryptHasher(cfg)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	mediaStorage := storage.NewBlobStorage(bucket, "https://cdn.blogsphere.test")

	f := &fixture{
		cfg:       cfg,
		clock:     clock,
		mailer:    newCaptureMailer(),
		publisher: publisher,
		tokens:    tokens,
		hasher:    hasher,
		storage:   mediaStorage,
		txManager: txManager,
	}

	f.auth = NewAuthService(AuthServiceParams{
		TxManager:     txManager,
		Hasher:        hasher,
		TokenService:  tokens,
		CodeGenerator: auth.NewCodeGenerator(),
		MailSender:    f.mailer,
		Config:        cfg,
		Logger:        logger,
	}).(*authService)
	f.auth.now = clock.Now

	f.profile = NewProfileService(ProfileServiceParams{
		TxManager: txManager,
		Hasher:    hasher,
		Config:    cfg,
		Logger:    logger,
	}).(*profileService)
	f.profile.now = clock.Now

	f.blogs = NewBlogService(BlogServiceParams{
		TxManager:     txManager,
		QRCodeService: qrcode.NewQRCodeService(256, "M"),
		Publisher:     publisher,
		Renderer:      content.NewContentRenderer(),
		Config:        cfg,
		Logger:        logger,
	}).(*blogService)
	f.blogs.now = clock.Now

	f.uploads = NewUploadService(UploadServiceParams{
		TxManager: txManager,
		Storage:   mediaStorage,
		Config:    cfg,
		Logger:    logger,
	}).(*uploadService)
	f.uploads.now = clock.Now

	return f
}

// registerVerified creates an account and completes email verification.
func (f *fixture) registerVerified(t *testing.T, username string) *entity.User {
	t.Helper()

	ctx := context.Background()
	email := username + "@example.com"

	_, err := f.auth.Register(ctx, &usecase.RegisterInput{
		FullName: "User " + username,
		Username: username,
		Email:    email,
		Password: testPassword,
	})
	require.NoError(t, err)

	session, err := f.auth.VerifyEmail(ctx, &usecase.VerifyEmailInput{
		Email: email,
		Code:  f.mailer.lastCode(t, email),
	})
	require.NoError(t, err)

	return session.User
}

func (f *fixture) createBlog(t *testing.T, author *entity.User, title string, tags ...string) *entity.Blog {
	t.Helper()

	f.clock.Advance(time.Minute)
	blog, err := f.blogs.Create(context.Background(), author.ID, &usecase.CreateBlogInput{
		Title:   title,
		Content: "Content of " + title,
		Tags:    tags,
	})
	require.NoError(t, err)

	return blog
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}
