// internal/services/auth_service.go
package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/models"
	"github.com/craftchain/artisan-marketplace/internal/store"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

// AuthService issues session tokens. Wallet sessions only prove that the
// caller controls an address; artisan rights come from the registry. Admin
// sessions carry the elevated role used for product verification.
type AuthService struct {
	store    *store.Store
	registry *RegistryService
	tokenTTL int
	log      *logrus.Entry
}

func NewAuthService(st *store.Store, registry *RegistryService, tokenTTLHours int) *AuthService {
	if tokenTTLHours <= 0 {
		tokenTTLHours = 24
	}
	return &AuthService{
		store:    st,
		registry: registry,
		tokenTTL: tokenTTLHours,
		log:      logrus.WithField("service", "auth"),
	}
}

type WalletLoginRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,wallet_address"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SessionResult struct {
	Token         string               `json:"token"`
	WalletAddress string               `json:"walletAddress,omitempty"`
	Role          string               `json:"role"`
	IsArtisan     bool                 `json:"isArtisan"`
	Artisan       *models.Artisan      `json:"artisan,omitempty"`
	Admin         *models.AdminProfile `json:"admin,omitempty"`
}

// WalletLogin starts a session for a connected wallet and reports whether
// the address already has an artisan registration.
func (s *AuthService) WalletLogin(ctx context.Context, req *WalletLoginRequest) (*SessionResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	result := &SessionResult{
		WalletAddress: req.WalletAddress,
		Role:          models.SessionRoleWallet,
	}
	if artisan, err := s.registry.GetArtisanByWallet(ctx, req.WalletAddress); err == nil {
		result.IsArtisan = true
		result.Artisan = artisan
	} else if err != ErrArtisanNotRegistered {
		return nil, err
	}

	token, err := utils.GenerateSessionToken(req.WalletAddress, req.WalletAddress, models.SessionRoleWallet, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	result.Token = token

	s.log.WithField("wallet", utils.ShortAddress(req.WalletAddress)).Info("Wallet session started")
	return result, nil
}

// AdminLogin authenticates a marketplace operator account against the
// persisted admins collection.
func (s *AuthService) AdminLogin(ctx context.Context, req *AdminLoginRequest) (*SessionResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var account *models.AdminUser
	err := s.store.WithLock(func() error {
		admins := store.Load(ctx, s.store, store.KeyAdmins, []models.AdminUser{})
		for i := range admins {
			if strings.EqualFold(admins[i].Email, req.Email) {
				a := admins[i]
				account = &a
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if account == nil || account.CheckPassword(req.Password) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateSessionToken(account.Email, "", models.SessionRoleAdmin, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	profile := account.Profile()
	s.log.WithField("email", account.Email).Info("Admin session started")
	return &SessionResult{
		Token: token,
		Role:  models.SessionRoleAdmin,
		Admin: &profile,
	}, nil
}

// EnsureAdminAccount seeds the bootstrap operator account when the admins
// collection does not contain the email yet.
func (s *AuthService) EnsureAdminAccount(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}
	return s.store.WithLock(func() error {
		admins := store.Load(ctx, s.store, store.KeyAdmins, []models.AdminUser{})
		for i := range admins {
			if strings.EqualFold(admins[i].Email, email) {
				return nil
			}
		}
		account := models.AdminUser{
			ID:        utils.GenerateEntityID("admin"),
			Email:     email,
			Name:      name,
			Role:      models.AdminRoleSuper,
			CreatedAt: time.Now().UTC(),
		}
		if err := account.SetPassword(password); err != nil {
			return err
		}
		admins = append(admins, account)
		if err := store.Save(ctx, s.store, store.KeyAdmins, admins); err != nil {
			return err
		}
		s.log.WithField("email", email).Info("Seeded admin account")
		return nil
	})
}
