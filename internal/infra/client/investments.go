package client

import (
	"context"
	"net/http"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// InvestmentsClient calls the /investments endpoints.
type InvestmentsClient struct {
	t *Transport
}

// NewInvestmentsClient creates a new InvestmentsClient.
func NewInvestmentsClient(t *Transport) *InvestmentsClient {
	return &InvestmentsClient{t: t}
}

func (c *InvestmentsClient) List(ctx context.Context) ([]domain.Investment, error) {
	var investments []domain.Investment
	err := c.t.Do(ctx, Request{
		Operation: "InvestmentsClient.List",
		Method:    http.MethodGet,
		Path:      "/investments",
	}, &investments)
	return investments, err
}

func (c *InvestmentsClient) Create(ctx context.Context, req *domain.CreateInvestmentRequest) (*domain.Investment, error) {
	var inv domain.Investment
	err := c.t.Do(ctx, Request{
		Operation: "InvestmentsClient.Create",
		Method:    http.MethodPost,
		Path:      "/investments",
		Body:      req,
	}, &inv)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *InvestmentsClient) Portfolio(ctx context.Context) (*domain.PortfolioSummary, error) {
	var p domain.PortfolioSummary
	err := c.t.Do(ctx, Request{
		Operation: "InvestmentsClient.Portfolio",
		Method:    http.MethodGet,
		Path:      "/investments/portfolio",
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *InvestmentsClient) SurplusAnalysis(ctx context.Context) (*domain.SurplusAnalysis, error) {
	var s domain.SurplusAnalysis
	err := c.t.Do(ctx, Request{
		Operation: "InvestmentsClient.SurplusAnalysis",
		Method:    http.MethodGet,
		Path:      "/investments/surplus-analysis",
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *InvestmentsClient) Recommendations(ctx context.Context) ([]domain.InvestmentRecommendation, error) {
	var recs []domain.InvestmentRecommendation
	err := c.t.Do(ctx, Request{
		Operation: "InvestmentsClient.Recommendations",
		Method:    http.MethodGet,
		Path:      "/investments/recommendations",
	}, &recs)
	return recs, err
}
