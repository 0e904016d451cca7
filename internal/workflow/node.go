package workflow

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/puppet/internal/adapters/aws"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/puppet/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/puppet/internal/adapters/template" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
)

// NodeID is the unique identifier for the workflow dispatcher Graft node.
const NodeID graft.ID = "workflow"

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			aws.NodeID,
			template.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.Executor, error) {
			clients, err := graft.Dep[ports.ClientFactory](ctx)
			if err != nil {
				return nil, err
			}

			templates, err := graft.Dep[ports.TemplateRenderer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewDispatcher(clients, templates, log, domain.DefaultDataPath()), nil
		},
	})
}
