package user

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/entities"
	"MeatFresh-Backend/internal/utils"
	"MeatFresh-Backend/internal/utils/mailing"
	"MeatFresh-Backend/pkg/jwt"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		IsPremium(ctx context.Context, userID string) (bool, error)
	}

	// MailSender delivers an HTML e-mail.
	MailSender func(toEmail string, subject string, body string) error

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		sendMail       MailSender
		appURL         string
		log            *zap.Logger
		now            func() time.Time
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, log *zap.Logger) UserService {
	return NewUserServiceWithMailer(userRepository, jwtService, mailing.SendMail, utils.GetConfig("APP_URL"), log)
}

func NewUserServiceWithMailer(userRepository UserRepository, jwtService jwt.JWTService, sendMail MailSender, appURL string, log *zap.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		sendMail:       sendMail,
		appURL:         strings.TrimRight(appURL, "/"),
		log:            log,
		now:            time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	if exists {
		return domain.AuthResponse{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, domain.ErrHashPassword
	}

	user := &entities.User{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Password:         string(hashed),
		Role:             domain.RoleUser,
		SubscriptionType: domain.SubscriptionFree,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.AuthResponse{}, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))

	return domain.AuthResponse{
		User:  s.toResponse(user),
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, domain.ErrInvalidCredentials
		}
		return domain.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}

	return domain.AuthResponse{
		User:  s.toResponse(user),
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return s.toResponse(user), nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// unknown addresses get the same answer as known ones
			return nil
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenForgetPassword(map[string]any{
		jwt.ClaimUserID:              user.ID.String(),
		jwt.ClaimPasswordFingerprint: passwordFingerprint(user.Password),
	}, resetTokenTTL)
	if err != nil {
		return err
	}

	body, err := mailing.ResetPasswordBody(mailing.ResetPasswordData{
		Name:         user.Name,
		Link:         fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token),
		ValidMinutes: int(resetTokenTTL / time.Minute),
	})
	if err != nil {
		return err
	}

	if err := s.sendMail(user.Email, "MeatFresh password reset", body); err != nil {
		s.log.Error("send reset mail", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domain.ErrSendEmail
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenForgetPassword(req.Token)
	if err != nil {
		return err
	}

	userID, _ := claims[jwt.ClaimUserID].(string)
	fingerprint, _ := claims[jwt.ClaimPasswordFingerprint].(string)
	if userID == "" {
		return domain.ErrTokenInvalid
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if fingerprint != passwordFingerprint(user.Password) {
		return domain.ErrTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrHashPassword
	}
	return s.userRepository.UpdatePassword(ctx, userID, string(hashed))
}

func (s *userService) IsPremium(ctx context.Context, userID string) (bool, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return EffectiveSubscription(user, s.now()) != domain.SubscriptionFree, nil
}

func (s *userService) getUser(ctx context.Context, userID string) (*entities.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrParseUUID
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) toResponse(user *entities.User) domain.UserResponse {
	plan := EffectiveSubscription(user, s.now())
	res := domain.UserResponse{
		ID:               user.ID.String(),
		Name:             user.Name,
		Email:            user.Email,
		AvatarURL:        user.AvatarURL,
		SubscriptionType: plan,
		IsPremium:        plan != domain.SubscriptionFree,
		CreatedAt:        user.CreatedAt,
	}
	if res.IsPremium {
		res.SubscriptionExpiresAt = user.SubscriptionExpiresAt
	}
	return res
}

// EffectiveSubscription reads back as free once a paid period has lapsed.
func EffectiveSubscription(user *entities.User, now time.Time) string {
	switch user.SubscriptionType {
	case domain.SubscriptionMonthly, domain.SubscriptionAnnual:
		if user.SubscriptionExpiresAt != nil && user.SubscriptionExpiresAt.Before(now) {
			return domain.SubscriptionFree
		}
		return user.SubscriptionType
	default:
		return domain.SubscriptionFree
	}
}

func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
