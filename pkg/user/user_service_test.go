package user

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/entities"
	"MeatFresh-Backend/pkg/jwt"
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*entities.User{}}
}

func (r *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID.String()] = &cp
	return nil
}

func (r *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, id string, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].Password = hashedPassword
	return nil
}

func (r *fakeUserRepository) UpdateSubscription(_ context.Context, id string, plan string, expiresAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].SubscriptionType = plan
	r.users[id].SubscriptionExpiresAt = expiresAt
	return nil
}

type sentMail struct {
	to, subject, body string
}

func newTestService(t *testing.T) (*userService, *fakeUserRepository, *[]sentMail) {
	t.Helper()
	repo := newFakeUserRepository()
	var outbox []sentMail
	svc := NewUserServiceWithMailer(repo, jwt.NewJWTServiceWithSecret("test-secret"),
		func(to, subject, body string) error {
			outbox = append(outbox, sentMail{to, subject, body})
			return nil
		}, "https://meatfresh.app/", zap.NewNop()).(*userService)
	return svc, repo, &outbox
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, domain.RegisterRequest{Name: " Linh ", Email: "Linh@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "linh@example.com", reg.User.Email)
	assert.Equal(t, "Linh", reg.User.Name)
	assert.Equal(t, domain.SubscriptionFree, reg.User.SubscriptionType)
	assert.NotEmpty(t, reg.Token)

	_, err = svc.Register(ctx, domain.RegisterRequest{Name: "Other", Email: "linh@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "linh@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "linh@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, domain.RegisterRequest{Name: "Linh", Email: "linh@example.com", Password: "password123"})
	require.NoError(t, err)

	me, err := svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "linh@example.com", me.Email)

	_, err = svc.Me(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)

	_, err = svc.Me(ctx, "6c1b8a3e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

var tokenPattern = regexp.MustCompile(`token=([^"&]+)`)

func TestForgotAndResetPassword(t *testing.T) {
	svc, _, outbox := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Name: "Linh", Email: "linh@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "nobody@example.com"}))
	assert.Empty(t, *outbox)

	require.NoError(t, svc.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "linh@example.com"}))
	require.Len(t, *outbox, 1)
	mail := (*outbox)[0]
	assert.Equal(t, "linh@example.com", mail.to)
	assert.Contains(t, mail.body, "https://meatfresh.app/reset-password?token=")

	match := tokenPattern.FindStringSubmatch(mail.body)
	require.Len(t, match, 2)
	token, err := url.QueryUnescape(match[1])
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, domain.ResetPasswordRequest{Token: token, Password: "new-password"}))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "linh@example.com", Password: "new-password"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, domain.ResetPasswordRequest{Token: token, Password: "third-password"})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid, "a reset token works once")
}

func TestIsPremium(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	reg, err := svc.Register(ctx, domain.RegisterRequest{Name: "Linh", Email: "linh@example.com", Password: "password123"})
	require.NoError(t, err)

	premium, err := svc.IsPremium(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.False(t, premium)

	future := now.Add(24 * time.Hour)
	require.NoError(t, repo.UpdateSubscription(ctx, reg.User.ID, domain.SubscriptionMonthly, &future))
	premium, err = svc.IsPremium(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, premium)

	past := now.Add(-time.Hour)
	require.NoError(t, repo.UpdateSubscription(ctx, reg.User.ID, domain.SubscriptionAnnual, &past))
	me, err := svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionFree, me.SubscriptionType)
	assert.Nil(t, me.SubscriptionExpiresAt)
}
