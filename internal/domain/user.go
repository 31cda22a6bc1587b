package domain

// ============================================================
// Auth: users and tokens
// ============================================================

// User is the driver's profile as returned by GET /auth/me.
type User struct {
	ID                    int64   `json:"id"`
	PhoneNumber           string  `json:"phone_number"`
	Name                  string  `json:"name"`
	Email                 *string `json:"email,omitempty"`
	VehicleType           *string `json:"vehicle_type,omitempty"`
	City                  *string `json:"city,omitempty"`
	PreferredLanguage     string  `json:"preferred_language"`
	WhatsappNumber        *string `json:"whatsapp_number,omitempty"`
	IsActive              bool    `json:"is_active"`
	IsVerified            bool    `json:"is_verified"`
	MonthlyIncomeTarget   float64 `json:"monthly_income_target"`
	MonthlyExpenseAverage float64 `json:"monthly_expense_average"`
	CreatedAt             Time    `json:"created_at"`
	LastLogin             *Time   `json:"last_login,omitempty"`
}

// Token is the body of a successful POST /auth/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" label:"Phone Number" validate:"required"`
	Password    string `json:"password" label:"Password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	PhoneNumber       string  `json:"phone_number" label:"Phone Number" validate:"required"`
	Name              string  `json:"name" label:"Full Name" validate:"required"`
	Password          string  `json:"password" label:"Password" validate:"required"`
	Email             *string `json:"email,omitempty"`
	VehicleType       *string `json:"vehicle_type,omitempty"`
	City              *string `json:"city,omitempty"`
	PreferredLanguage string  `json:"preferred_language,omitempty"`
}

// ProfileUpdate is a partial patch for PATCH /auth/me. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name                  *string  `json:"name,omitempty"`
	Email                 *string  `json:"email,omitempty"`
	VehicleType           *string  `json:"vehicle_type,omitempty"`
	City                  *string  `json:"city,omitempty"`
	PreferredLanguage     *string  `json:"preferred_language,omitempty"`
	MonthlyIncomeTarget   *float64 `json:"monthly_income_target,omitempty"`
	MonthlyExpenseAverage *float64 `json:"monthly_expense_average,omitempty"`
}
