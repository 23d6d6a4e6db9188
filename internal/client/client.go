// Package client talks to a running config helper. The CLI uses it for the
// remote variants of its commands.
package client

import (
	"context"

	"github.com/alfredjeanlab/confighelper/internal/model"
)

// Client is the interface CLI commands use to reach the service.
type Client interface {
	Health(ctx context.Context) (*HealthResponse, error)
	Init(ctx context.Context) (*InitResponse, error)
	Import(ctx context.Context, yaml string) (*model.Config, error)
	Export(ctx context.Context, cfg *model.Config) (string, error)
	Close() error
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// InitResponse is the body of GET /api/init.
type InitResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

type importRequest struct {
	Config string `json:"config"`
}

type importResponse struct {
	Success bool          `json:"success"`
	Config  *model.Config `json:"config"`
}

type exportRequest struct {
	Config *model.Config `json:"config"`
}

type exportResponse struct {
	Success bool   `json:"success"`
	YAML    string `json:"yaml"`
}
