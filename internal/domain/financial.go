package domain

// ============================================================
// Goals
// ============================================================

// Goal is a savings or investment target.
type Goal struct {
	ID                   int64   `json:"id"`
	GoalName             string  `json:"goal_name"`
	Description          *string `json:"description,omitempty"`
	GoalType             string  `json:"goal_type"`
	TargetAmount         float64 `json:"target_amount"`
	CurrentAmount        float64 `json:"current_amount"`
	MonthlyContribution  float64 `json:"monthly_contribution"`
	TargetDate           *Time   `json:"target_date,omitempty"`
	Status               string  `json:"status"`
	CompletionPercentage float64 `json:"completion_percentage"`
	PercentageComplete   float64 `json:"percentage_complete"`
	CreatedAt            Time    `json:"created_at"`
}

// Completion is the goal's progress in percent, clamped to 0-100. Older
// backends only send percentage_complete.
func (g Goal) Completion() float64 {
	pct := g.CompletionPercentage
	if pct == 0 {
		pct = g.PercentageComplete
	}
	return min(max(pct, 0), 100)
}

// CreateGoalRequest is the body of POST /goals.
type CreateGoalRequest struct {
	GoalName            string   `json:"goal_name" label:"Goal Name" validate:"required"`
	Description         *string  `json:"description,omitempty"`
	GoalType            string   `json:"goal_type,omitempty"`
	TargetAmount        float64  `json:"target_amount" label:"Target Amount" validate:"required"`
	MonthlyContribution *float64 `json:"monthly_contribution,omitempty"`
	TargetDate          *Time    `json:"target_date,omitempty"`
}

// GoalProgressRequest is the body of POST /goals/{id}/progress.
type GoalProgressRequest struct {
	GoalID      int64   `json:"goal_id"`
	AmountAdded float64 `json:"amount_added"`
	Notes       *string `json:"notes,omitempty"`
}

// GoalProgress is one recorded contribution to a goal.
type GoalProgress struct {
	ID            int64   `json:"id"`
	GoalID        int64   `json:"goal_id"`
	AmountAdded   float64 `json:"amount_added"`
	PreviousTotal float64 `json:"previous_total"`
	NewTotal      float64 `json:"new_total"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     Time    `json:"created_at"`
}

// ============================================================
// Investments
// ============================================================

// Investment is a held instrument.
type Investment struct {
	ID                 int64    `json:"id"`
	InvestmentName     string   `json:"investment_name"`
	InvestmentType     string   `json:"investment_type"`
	PrincipalAmount    float64  `json:"principal_amount"`
	ExpectedReturnRate *float64 `json:"expected_return_rate,omitempty"`
	MaturityDate       *Time    `json:"maturity_date,omitempty"`
	IsRecurring        bool     `json:"is_recurring"`
	RecurringAmount    *float64 `json:"recurring_amount,omitempty"`
	RecurringFrequency *string  `json:"recurring_frequency,omitempty"`
	RiskLevel          string   `json:"risk_level"`
	ProviderName       *string  `json:"provider_name,omitempty"`
	CurrentValue       float64  `json:"current_value"`
	InvestedAmount     float64  `json:"invested_amount"`
	Status             string   `json:"status"`
	TotalReturns       float64  `json:"total_returns"`
	ReturnsPercentage  float64  `json:"returns_percentage"`
	CreatedAt          Time     `json:"created_at"`
}

// CreateInvestmentRequest is the body of POST /investments.
type CreateInvestmentRequest struct {
	InvestmentName     string   `json:"investment_name" label:"Name" validate:"required"`
	InvestmentType     string   `json:"investment_type" label:"Type" validate:"required"`
	PrincipalAmount    float64  `json:"principal_amount" label:"Principal" validate:"required"`
	ExpectedReturnRate *float64 `json:"expected_return_rate,omitempty"`
	IsRecurring        bool     `json:"is_recurring"`
	RecurringAmount    *float64 `json:"recurring_amount,omitempty"`
	RecurringFrequency *string  `json:"recurring_frequency,omitempty"`
	RiskLevel          string   `json:"risk_level,omitempty"`
	ProviderName       *string  `json:"provider_name,omitempty"`
}

// PortfolioSummary aggregates all active investments.
type PortfolioSummary struct {
	TotalInvested         float64            `json:"total_invested"`
	CurrentPortfolioValue float64            `json:"current_portfolio_value"`
	TotalReturns          float64            `json:"total_returns"`
	ReturnsPercentage     float64            `json:"returns_percentage"`
	ActiveInvestments     int                `json:"active_investments"`
	MonthlyRecurringTotal float64            `json:"monthly_recurring_total"`
	InvestmentBreakdown   map[string]float64 `json:"investment_breakdown"`
	RiskDistribution      map[string]float64 `json:"risk_distribution"`
}

// SurplusAnalysis is the monthly income versus expense picture.
type SurplusAnalysis struct {
	MonthlyIncome          float64  `json:"monthly_income"`
	MonthlyExpenses        float64  `json:"monthly_expenses"`
	MonthlySurplus         float64  `json:"monthly_surplus"`
	SurplusPercentage      float64  `json:"surplus_percentage"`
	RecommendedSavings     float64  `json:"recommended_savings"`
	RecommendedInvestments float64  `json:"recommended_investments"`
	EmergencyFundStatus    string   `json:"emergency_fund_status"`
	Insights               []string `json:"insights"`
}

// InvestmentRecommendation is an AI-generated suggestion. MarketData is
// free-form; known keys include "current_rate" and "trend".
type InvestmentRecommendation struct {
	ID                 int64          `json:"id"`
	RecommendationType string         `json:"recommendation_type"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	SuggestedAmount    float64        `json:"suggested_amount"`
	ExpectedReturnRate *float64       `json:"expected_return_rate,omitempty"`
	TenureMonths       *int           `json:"tenure_months,omitempty"`
	RiskLevel          string         `json:"risk_level"`
	AIReasoning        *string        `json:"ai_reasoning,omitempty"`
	MarketData         map[string]any `json:"market_data,omitempty"`
	IsActedUpon        bool           `json:"is_acted_upon"`
	CreatedAt          Time           `json:"created_at"`
	ExpiresAt          *Time          `json:"expires_at,omitempty"`
}
