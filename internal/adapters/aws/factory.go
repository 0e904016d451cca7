// Package aws implements the cloud ports on top of the AWS SDK for Go v2.
package aws

import (
	"context"
	"sync"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// DefaultStackWait bounds a single CloudFormation waiter.
// Stack operations have no global timeout; this only guards against a waiter
// that never observes a terminal state.
const DefaultStackWait = 6 * time.Hour

// Factory hands out clients per account, role session and region.
// Clients are built once per session and shared by every task using it.
type Factory struct {
	base      awssdk.Config
	stackWait time.Duration

	mu      sync.Mutex
	clients map[string]*Client
	group   singleflight.Group
}

// NewFactory loads the ambient AWS configuration.
func NewFactory(ctx context.Context) (*Factory, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load aws configuration")
	}
	return NewFactoryFromConfig(cfg), nil
}

// NewFactoryFromConfig creates a factory on top of an existing configuration.
func NewFactoryFromConfig(cfg awssdk.Config) *Factory {
	return &Factory{
		base:      cfg,
		stackWait: DefaultStackWait,
		clients:   make(map[string]*Client),
	}
}

// AssumeRole returns a client whose credentials come from assuming the session role.
// Credentials are fetched lazily and refreshed before they expire.
func (f *Factory) AssumeRole(_ context.Context, session domain.RoleSession) (ports.ScopedClient, error) {
	key := "role|" + session.RoleARN + "|" + session.SessionName + "|" + session.Region
	c, err := f.client(key, func() *Client {
		cfg := f.base.Copy()
		cfg.Region = session.Region
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), session.RoleARN,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = session.SessionName
			})
		cfg.Credentials = awssdk.NewCredentialsCache(provider)
		return newClient(cfg, f.stackWait)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Local returns a client using the ambient credentials in the given region.
func (f *Factory) Local(_ context.Context, region string) (ports.ScopedClient, error) {
	c, err := f.client("local|"+region, func() *Client {
		cfg := f.base.Copy()
		cfg.Region = region
		return newClient(cfg, f.stackWait)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *Factory) client(key string, build func() *Client) (*Client, error) {
	f.mu.Lock()
	if c, ok := f.clients[key]; ok {
		f.mu.Unlock()
		return c, nil
	}
	f.mu.Unlock()

	v, err, _ := f.group.Do(key, func() (any, error) {
		c := build()
		f.mu.Lock()
		f.clients[key] = c
		f.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Client), nil
}

// Client is a ports.ScopedClient bound to one account and region.
type Client struct {
	serviceCatalog *ServiceCatalog
	cloudFormation *CloudFormation
	codeBuild      *CodeBuild
	parameterStore *ParameterStore
}

func newClient(cfg awssdk.Config, stackWait time.Duration) *Client {
	return &Client{
		serviceCatalog: NewServiceCatalog(servicecatalog.NewFromConfig(cfg)),
		cloudFormation: NewCloudFormation(cloudformation.NewFromConfig(cfg), stackWait),
		codeBuild:      NewCodeBuild(codebuild.NewFromConfig(cfg)),
		parameterStore: NewParameterStore(ssm.NewFromConfig(cfg)),
	}
}

// ServiceCatalog returns the Service Catalog adapter.
func (c *Client) ServiceCatalog() ports.ServiceCatalog { return c.serviceCatalog }

// CloudFormation returns the CloudFormation adapter.
func (c *Client) CloudFormation() ports.CloudFormation { return c.cloudFormation }

// CodeBuild returns the CodeBuild adapter.
func (c *Client) CodeBuild() ports.CodeBuild { return c.codeBuild }

// ParameterStore returns the SSM parameter store adapter.
func (c *Client) ParameterStore() ports.ParameterStore { return c.parameterStore }
