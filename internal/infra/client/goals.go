package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// GoalsClient calls the /goals endpoints.
type GoalsClient struct {
	t *Transport
}

// NewGoalsClient creates a new GoalsClient.
func NewGoalsClient(t *Transport) *GoalsClient {
	return &GoalsClient{t: t}
}

func (c *GoalsClient) List(ctx context.Context) ([]domain.Goal, error) {
	var goals []domain.Goal
	err := c.t.Do(ctx, Request{
		Operation: "GoalsClient.List",
		Method:    http.MethodGet,
		Path:      "/goals",
	}, &goals)
	return goals, err
}

func (c *GoalsClient) Create(ctx context.Context, req *domain.CreateGoalRequest) (*domain.Goal, error) {
	var g domain.Goal
	err := c.t.Do(ctx, Request{
		Operation: "GoalsClient.Create",
		Method:    http.MethodPost,
		Path:      "/goals",
		Body:      req,
	}, &g)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// AddProgress records a contribution. The goal ID travels both in the path
// and in the body.
func (c *GoalsClient) AddProgress(ctx context.Context, req *domain.GoalProgressRequest) (*domain.GoalProgress, error) {
	var p domain.GoalProgress
	err := c.t.Do(ctx, Request{
		Operation: "GoalsClient.AddProgress",
		Method:    http.MethodPost,
		Path:      fmt.Sprintf("/goals/%d/progress", req.GoalID),
		Body:      req,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
