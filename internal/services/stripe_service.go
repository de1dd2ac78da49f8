package services

import (
	"context"
	"time"

	"socialai/internal/config"
	"socialai/internal/models"

	"github.com/go-resty/resty/v2"
)

// StripeAccount is the subset of GET /v1/account the operator console shows.
type StripeAccount struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Country         string `json:"country"`
	DefaultCurrency string `json:"default_currency"`
	ChargesEnabled  bool   `json:"charges_enabled"`
	PayoutsEnabled  bool   `json:"payouts_enabled"`
	BusinessProfile struct {
		Name string `json:"name"`
	} `json:"business_profile"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type StripeService interface {
	// TestConnection verifies the configured secret key against the account endpoint.
	TestConnection(ctx context.Context) (*StripeAccount, error)
}

type stripeService struct {
	secretKey string
	client    *resty.Client
}

func NewStripeService(cfg config.StripeConfig) StripeService {
	return &stripeService{
		secretKey: cfg.SecretKey,
		client:    newAPIClient(cfg.BaseURL).SetTimeout(10 * time.Second),
	}
}

func (s *stripeService) TestConnection(ctx context.Context) (*StripeAccount, error) {
	if s.secretKey == "" {
		return nil, models.MisconfiguredError("STRIPE_SECRET_KEY")
	}

	var account StripeAccount
	var apiErr stripeError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBasicAuth(s.secretKey, "").
		SetResult(&account).
		SetError(&apiErr).
		Get("/v1/account")
	if err != nil {
		return nil, &models.UpstreamError{Provider: "stripe", Message: err.Error()}
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &models.UpstreamError{Provider: "stripe", Status: resp.StatusCode(), Message: msg}
	}
	return &account, nil
}
