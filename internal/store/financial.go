package store

import (
	"context"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/port"

	"go.uber.org/zap"
)

// FinancialState is the goals and investments slice of client state.
type FinancialState struct {
	Meta
	Goals           []domain.Goal                     `json:"goals"`
	Investments     []domain.Investment               `json:"investments"`
	Portfolio       *domain.PortfolioSummary          `json:"portfolio,omitempty"`
	Surplus         *domain.SurplusAnalysis           `json:"surplus,omitempty"`
	Recommendations []domain.InvestmentRecommendation `json:"recommendations"`
}

// FinancialStore owns savings goals, investments and the derived analyses.
type FinancialStore struct {
	c           *container[FinancialState]
	goals       port.GoalsAPI
	investments port.InvestmentsAPI
}

// NewFinancialStore creates an empty FinancialStore.
func NewFinancialStore(goals port.GoalsAPI, investments port.InvestmentsAPI, metrics *observability.Metrics, logger *zap.Logger) *FinancialStore {
	return &FinancialStore{
		c:           newContainer("financial", FinancialState{}, metrics, logger),
		goals:       goals,
		investments: investments,
	}
}

// Snapshot returns the current financial state.
func (s *FinancialStore) Snapshot() FinancialState {
	st, meta := s.c.snapshot()
	st.Meta = meta
	return st
}

// Subscribe registers fn for state changes.
func (s *FinancialStore) Subscribe(fn func()) func() {
	return s.c.Subscribe(fn)
}

// FetchGoals replaces the goal list.
func (s *FinancialStore) FetchGoals(ctx context.Context) {
	s.c.begin()
	goals, err := s.goals.List(ctx)
	if err != nil {
		s.c.fail("fetch_goals", "Failed to fetch goals", err)
		return
	}
	s.c.succeed("fetch_goals", func(st *FinancialState) { st.Goals = goals })
}

// CreateGoal adds a goal to the end of the list.
func (s *FinancialStore) CreateGoal(ctx context.Context, req *domain.CreateGoalRequest) (*domain.Goal, error) {
	s.c.begin()
	goal, err := s.goals.Create(ctx, req)
	if err != nil {
		s.c.fail("create_goal", "Failed to create goal", err)
		return nil, err
	}
	s.c.succeed("create_goal", func(st *FinancialState) {
		goals := make([]domain.Goal, 0, len(st.Goals)+1)
		st.Goals = append(append(goals, st.Goals...), *goal)
	})
	return goal, nil
}

// AddGoalProgress records a contribution and then reloads every goal, since
// the backend recomputes completion and may change the goal status.
func (s *FinancialStore) AddGoalProgress(ctx context.Context, goalID int64, amount float64, notes *string) error {
	s.c.begin()
	_, err := s.goals.AddProgress(ctx, &domain.GoalProgressRequest{
		GoalID:      goalID,
		AmountAdded: amount,
		Notes:       notes,
	})
	var goals []domain.Goal
	if err == nil {
		goals, err = s.goals.List(ctx)
	}
	if err != nil {
		s.c.fail("add_goal_progress", "Failed to add progress", err)
		return err
	}
	s.c.succeed("add_goal_progress", func(st *FinancialState) { st.Goals = goals })
	return nil
}

// FetchInvestments replaces the investment list.
func (s *FinancialStore) FetchInvestments(ctx context.Context) {
	s.c.begin()
	items, err := s.investments.List(ctx)
	if err != nil {
		s.c.fail("fetch_investments", "Failed to fetch investments", err)
		return
	}
	s.c.succeed("fetch_investments", func(st *FinancialState) { st.Investments = items })
}

// CreateInvestment adds an investment to the end of the list.
func (s *FinancialStore) CreateInvestment(ctx context.Context, req *domain.CreateInvestmentRequest) (*domain.Investment, error) {
	s.c.begin()
	inv, err := s.investments.Create(ctx, req)
	if err != nil {
		s.c.fail("create_investment", "Failed to create investment", err)
		return nil, err
	}
	s.c.succeed("create_investment", func(st *FinancialState) {
		items := make([]domain.Investment, 0, len(st.Investments)+1)
		st.Investments = append(append(items, st.Investments...), *inv)
	})
	return inv, nil
}

// FetchPortfolio loads the portfolio summary.
func (s *FinancialStore) FetchPortfolio(ctx context.Context) {
	s.c.begin()
	p, err := s.investments.Portfolio(ctx)
	if err != nil {
		s.c.fail("fetch_portfolio", "Failed to fetch portfolio", err)
		return
	}
	s.c.succeed("fetch_portfolio", func(st *FinancialState) { st.Portfolio = p })
}

// FetchSurplus loads the monthly surplus analysis.
func (s *FinancialStore) FetchSurplus(ctx context.Context) {
	s.c.begin()
	sa, err := s.investments.SurplusAnalysis(ctx)
	if err != nil {
		s.c.fail("fetch_surplus", "Failed to fetch surplus analysis", err)
		return
	}
	s.c.succeed("fetch_surplus", func(st *FinancialState) { st.Surplus = sa })
}

// FetchRecommendations loads investment suggestions.
func (s *FinancialStore) FetchRecommendations(ctx context.Context) {
	s.c.begin()
	recs, err := s.investments.Recommendations(ctx)
	if err != nil {
		s.c.fail("fetch_recommendations", "Failed to fetch recommendations", err)
		return
	}
	s.c.succeed("fetch_recommendations", func(st *FinancialState) { st.Recommendations = recs })
}
