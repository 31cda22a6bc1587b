package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// VehiclesClient calls the /vehicles endpoints.
type VehiclesClient struct {
	t *Transport
}

// NewVehiclesClient creates a new VehiclesClient.
func NewVehiclesClient(t *Transport) *VehiclesClient {
	return &VehiclesClient{t: t}
}

func (c *VehiclesClient) List(ctx context.Context) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := c.t.Do(ctx, Request{
		Operation: "VehiclesClient.List",
		Method:    http.MethodGet,
		Path:      "/vehicles",
	}, &vehicles)
	return vehicles, err
}

func (c *VehiclesClient) Create(ctx context.Context, req *domain.CreateVehicleRequest) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := c.t.Do(ctx, Request{
		Operation: "VehiclesClient.Create",
		Method:    http.MethodPost,
		Path:      "/vehicles",
		Body:      req,
	}, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *VehiclesClient) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := c.t.Do(ctx, Request{
		Operation: "VehiclesClient.Get",
		Method:    http.MethodGet,
		Path:      fmt.Sprintf("/vehicles/%d", id),
	}, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *VehiclesClient) Update(ctx context.Context, id int64, upd *domain.VehicleUpdate) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := c.t.Do(ctx, Request{
		Operation: "VehiclesClient.Update",
		Method:    http.MethodPatch,
		Path:      fmt.Sprintf("/vehicles/%d", id),
		Body:      upd,
	}, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UploadHealthCheck sends photos of the vehicle for AI diagnosis. Every
// image goes under the repeated "images" field.
func (c *VehiclesClient) UploadHealthCheck(ctx context.Context, vehicleID int64, images []domain.Attachment) (*domain.VehicleHealthCheck, error) {
	files := make([]FilePart, 0, len(images))
	for i, img := range images {
		if img.FileName == "" {
			img.FileName = fmt.Sprintf("vehicle_%d.jpg", i)
		}
		if img.ContentType == "" {
			img.ContentType = "image/jpeg"
		}
		files = append(files, FilePart{Field: FieldHealthImages, Attachment: img})
	}

	var check domain.VehicleHealthCheck
	err := c.t.Do(ctx, Request{
		Operation: "VehiclesClient.UploadHealthCheck",
		Method:    http.MethodPost,
		Path:      fmt.Sprintf("/vehicles/%d/health-check", vehicleID),
		Multipart: &Multipart{Files: files},
	}, &check)
	if err != nil {
		return nil, err
	}
	return &check, nil
}

func (c *VehiclesClient) HealthChecks(ctx context.Context, vehicleID int64) ([]domain.VehicleHealthCheck, error) {
	var checks []domain.VehicleHealthCheck
	err := c.t.Do(ctx, Request{
		Operation: "VehiclesClient.HealthChecks",
		Method:    http.MethodGet,
		Path:      fmt.Sprintf("/vehicles/%d/health-checks", vehicleID),
	}, &checks)
	return checks, err
}

func (c *VehiclesClient) HealthCheck(ctx context.Context, vehicleID, checkID int64) (*domain.VehicleHealthCheck, error) {
	var check domain.VehicleHealthCheck
	err := c.t.Do(ctx, Request{
		Operation: "VehiclesClient.HealthCheck",
		Method:    http.MethodGet,
		Path:      fmt.Sprintf("/vehicles/%d/health-checks/%d", vehicleID, checkID),
	}, &check)
	if err != nil {
		return nil, err
	}
	return &check, nil
}
