// Package service wires the registry and orchestrator behind the operations
// the HTTP transport exposes.
package service

import (
	"github.com/opencatalog/researchd/internal/config"
	"github.com/opencatalog/researchd/internal/orchestrator"
	"github.com/opencatalog/researchd/internal/registry"
)

type Service struct {
	registry     *registry.Registry
	orchestrator *orchestrator.Orchestrator
	config       *config.Config
}

func New(reg *registry.Registry, orch *orchestrator.Orchestrator, cfg *config.Config) *Service {
	return &Service{
		registry:     reg,
		orchestrator: orch,
		config:       cfg,
	}
}

// Config exposes the engine configuration to the transport layer.
func (s *Service) Config() *config.Config {
	return s.config
}
