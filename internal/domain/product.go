package domain

type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	Active         bool   `json:"active"`
}
