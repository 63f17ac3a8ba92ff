package render

import (
	"unicode"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/networth-tracker/networth/internal/models"
)

// Amounts from the API are pounds as JSON numbers.
const currency = money.GBP

var accountTypeLabels = map[string]string{
	"savings":    "Savings",
	"current":    "Current Accounts",
	"investment": "Investments",
	"credit":     "Credit Cards",
	"loan":       "Loans",
}

// GBP formats pounds as £1,234.56
func GBP(pounds float64) string {
	return toMoney(decimal.NewFromFloat(pounds)).Display()
}

func toMoney(pounds decimal.Decimal) *money.Money {
	cur := money.GetCurrency(currency)
	pence := pounds.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(pence, currency)
}

// AccountTypeLabel returns the display name of an account type
func AccountTypeLabel(accountType string) string {
	if label, ok := accountTypeLabels[accountType]; ok {
		return label
	}
	if accountType == "" {
		return "Other"
	}
	r, size := utf8.DecodeRuneInString(accountType)
	return string(unicode.ToUpper(r)) + accountType[size:]
}

// Share is one slice of the account type distribution
type Share struct {
	Label   string
	Amount  float64
	Percent decimal.Decimal // 0-100, one decimal place
}

// Shares splits total across the account type balances. A zero total gives
// zero percentages.
func Shares(total float64, balances []models.AccountTypeBalance) []Share {
	t := decimal.NewFromFloat(total)
	out := make([]Share, len(balances))
	for i, b := range balances {
		pct := decimal.Zero
		if !t.IsZero() {
			pct = decimal.NewFromFloat(b.TotalBalanceGBP).Div(t).Mul(decimal.NewFromInt(100)).Round(1)
		}
		out[i] = Share{
			Label:   AccountTypeLabel(b.AccountType),
			Amount:  b.TotalBalanceGBP,
			Percent: pct,
		}
	}
	return out
}
