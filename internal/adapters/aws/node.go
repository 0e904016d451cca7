package aws

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/puppet/internal/core/ports"
)

// NodeID is the unique identifier for the AWS client factory Graft node.
const NodeID graft.ID = "adapter.aws"

func init() {
	graft.Register(graft.Node[ports.ClientFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ClientFactory, error) {
			factory, err := NewFactory(ctx)
			if err != nil {
				return nil, err
			}
			return factory, nil
		},
	})
}
