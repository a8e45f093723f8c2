package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/config"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/mail"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		PasswordResetTTL: time.Hour,
		PasswordResetURL: "cleancampus://reset-password",
	}
}

type reportFixture struct {
	db       *gorm.DB
	reports  *repository.ReportRepository
	profiles *repository.ProfileRepository
	service  *ReportService
}

func newReportFixture(t *testing.T, forwardOnly bool) *reportFixture {
	t.Helper()
	db := testutils.SetupSQLite(t)
	broker := realtime.NewBroker(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { broker.Close() })

	reports := repository.NewReportRepository(db, broker)
	profiles := repository.NewProfileRepository(db)
	return &reportFixture{
		db:       db,
		reports:  reports,
		profiles: profiles,
		service:  NewReportService(reports, profiles, NewValidator(), forwardOnly),
	}
}

func (f *reportFixture) user(t *testing.T, role models.Role) uuid.UUID {
	t.Helper()
	uid := uuid.New()
	_, err := f.profiles.Create(context.Background(), uid, uid.String()[:8]+"@campus.edu", role)
	require.NoError(t, err)
	return uid
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}

type fakeStore struct {
	names []string
	err   error
}

func (s *fakeStore) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	s.names = append(s.names, name)
	return "https://res.cloudinary.com/campus/image/upload/cleancampus/" + name, nil
}
