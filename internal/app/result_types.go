package app

import (
	"service-desk/internal/core"

	"github.com/shopspring/decimal"
)

// UserSession is returned by AuthenticateUser.
type UserSession struct {
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  core.Role `json:"role"`
}

// PaymentsReport lists completed services with their revenue total.
type PaymentsReport struct {
	Services []core.Service  `json:"services"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardSummary holds the counters shown on the dashboard landing page.
type DashboardSummary struct {
	Items            int            `json:"items"`
	UnitsOnHand      int            `json:"units_on_hand"`
	Services         int            `json:"services"`
	ServicesByStatus map[string]int `json:"services_by_status"`
}
