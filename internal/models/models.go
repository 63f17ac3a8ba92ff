package models

import "time"

// UserProfile is the authenticated user as returned by GET /api/v1/auth/me
type UserProfile struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Complete reports whether the profile identifies a real user. A zero-value
// profile is used by nothing but callers that have not fetched one yet.
func (u UserProfile) Complete() bool {
	return u.ID != ""
}

// DisplayName prefers the username and falls back to the email address
func (u UserProfile) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// TokenGrant is the result of a login or refresh exchange
type TokenGrant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // Seconds until the access token expires

	// RefreshToken is read from the refresh_token cookie, never the body.
	RefreshToken string `json:"-"`
}

// RegisterRequest is the body of POST /api/v1/auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GroupBalance is one account group's total on the dashboard
type GroupBalance struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	TotalBalanceGBP float64 `json:"total_balance_gbp"`
}

// AccountTypeBalance is the dashboard total for one account type
type AccountTypeBalance struct {
	AccountType     string  `json:"account_type"`
	TotalBalanceGBP float64 `json:"total_balance_gbp"`
}

// Dashboard is the response of GET /api/v1/dashboard
type Dashboard struct {
	TotalBalanceGBP float64              `json:"total_balance_gbp"`
	Groups          []GroupBalance       `json:"groups"`
	ByAccountType   []AccountTypeBalance `json:"by_account_type"`
}

// HistoryPoint is a dated balance in a group's history
type HistoryPoint struct {
	Date            string  `json:"date"`
	TotalBalanceGBP float64 `json:"total_balance_gbp"`
}

// AccountGroup is an entry of GET /api/v1/account-groups
type AccountGroup struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	AccountCount    int            `json:"account_count"`
	TotalBalanceGBP float64        `json:"total_balance_gbp"`
	BalanceHistory  []HistoryPoint `json:"balance_history"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
