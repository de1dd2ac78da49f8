package models

import "time"

// PricingPlan is what the public pricing page renders.
type PricingPlan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MonthlyPrice float64  `json:"monthly_price"`
	Currency     string   `json:"currency"`
	Features     []string `json:"features"`
	Custom       bool     `json:"custom"`
}

// PricingConfig is a platform-wide override of a default plan.
type PricingConfig struct {
	PlanID       string    `json:"plan_id" db:"plan_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	MonthlyPrice float64   `json:"monthly_price" db:"monthly_price"`
	Currency     string    `json:"currency" db:"currency"`
	Features     []string  `json:"features" db:"features"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
