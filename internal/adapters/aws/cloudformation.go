package aws

import (
	"context"
	"errors"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	stackDeleteComplete   = string(types.StackStatusDeleteComplete)
	stackRollbackComplete = string(types.StackStatusRollbackComplete)
)

// CloudFormationAPI is the subset of the SDK client used by CloudFormation.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	CreateStack(ctx context.Context, in *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	UpdateStack(ctx context.Context, in *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
	DeleteStack(ctx context.Context, in *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
}

// CloudFormation implements ports.CloudFormation.
type CloudFormation struct {
	api  CloudFormationAPI
	wait time.Duration
}

// NewCloudFormation wraps an SDK client. wait bounds each waiter.
func NewCloudFormation(api CloudFormationAPI, wait time.Duration) *CloudFormation {
	return &CloudFormation{api: api, wait: wait}
}

// DescribeStack returns a stack, or domain.ErrNotFound.
// A deleted stack is reported as missing.
func (c *CloudFormation) DescribeStack(ctx context.Context, name string) (domain.Stack, error) {
	res, err := c.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: awssdk.String(name)})
	if err != nil {
		return domain.Stack{}, classify(err, "cloudformation.DescribeStacks", "stack", name)
	}
	for _, s := range res.Stacks {
		if string(s.StackStatus) == stackDeleteComplete {
			continue
		}
		return toStack(s), nil
	}
	return domain.Stack{}, zerr.With(zerr.Wrap(domain.ErrNotFound, "cloudformation.DescribeStacks"), "stack", name)
}

// CreateOrUpdateStack converges a stack to the request and waits for it to settle.
// A stack left in ROLLBACK_COMPLETE cannot be updated, so it is replaced.
func (c *CloudFormation) CreateOrUpdateStack(ctx context.Context, req domain.StackRequest) (domain.Stack, error) {
	existing, err := c.DescribeStack(ctx, req.StackName)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := c.create(ctx, req); err != nil {
			return domain.Stack{}, err
		}
	case err != nil:
		return domain.Stack{}, err
	case existing.StackStatus == stackRollbackComplete:
		if err := c.EnsureDeleted(ctx, req.StackName); err != nil {
			return domain.Stack{}, err
		}
		if err := c.create(ctx, req); err != nil {
			return domain.Stack{}, err
		}
	default:
		if err := c.update(ctx, req); err != nil {
			return domain.Stack{}, err
		}
	}
	return c.DescribeStack(ctx, req.StackName)
}

func (c *CloudFormation) create(ctx context.Context, req domain.StackRequest) error {
	_, err := c.api.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:        awssdk.String(req.StackName),
		TemplateBody:     awssdk.String(req.TemplateBody),
		Capabilities:     []types.Capability{types.CapabilityCapabilityNamedIam},
		NotificationARNs: req.NotificationARNs,
	})
	if err != nil {
		return classify(err, "cloudformation.CreateStack", "stack", req.StackName)
	}
	w := cloudformation.NewStackCreateCompleteWaiter(c.api)
	err = w.Wait(ctx, &cloudformation.DescribeStacksInput{StackName: awssdk.String(req.StackName)}, c.wait)
	return classify(err, "cloudformation.WaitStackCreateComplete", "stack", req.StackName)
}

func (c *CloudFormation) update(ctx context.Context, req domain.StackRequest) error {
	_, err := c.api.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:        awssdk.String(req.StackName),
		TemplateBody:     awssdk.String(req.TemplateBody),
		Capabilities:     []types.Capability{types.CapabilityCapabilityNamedIam},
		NotificationARNs: req.NotificationARNs,
	})
	if isNoUpdates(err) {
		return nil
	}
	if err != nil {
		return classify(err, "cloudformation.UpdateStack", "stack", req.StackName)
	}
	w := cloudformation.NewStackUpdateCompleteWaiter(c.api)
	err = w.Wait(ctx, &cloudformation.DescribeStacksInput{StackName: awssdk.String(req.StackName)}, c.wait)
	return classify(err, "cloudformation.WaitStackUpdateComplete", "stack", req.StackName)
}

// EnsureDeleted removes a stack if present and waits for the deletion.
func (c *CloudFormation) EnsureDeleted(ctx context.Context, name string) error {
	_, err := c.DescribeStack(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := c.api.DeleteStack(ctx, &cloudformation.DeleteStackInput{StackName: awssdk.String(name)}); err != nil {
		return classify(err, "cloudformation.DeleteStack", "stack", name)
	}
	w := cloudformation.NewStackDeleteCompleteWaiter(c.api)
	err = w.Wait(ctx, &cloudformation.DescribeStacksInput{StackName: awssdk.String(name)}, c.wait)
	return classify(err, "cloudformation.WaitStackDeleteComplete", "stack", name)
}

func toStack(s types.Stack) domain.Stack {
	out := domain.Stack{
		StackID:     awssdk.ToString(s.StackId),
		StackName:   awssdk.ToString(s.StackName),
		StackStatus: string(s.StackStatus),
	}
	if len(s.Outputs) > 0 {
		out.Outputs = make(map[string]string, len(s.Outputs))
		for _, o := range s.Outputs {
			out.Outputs[awssdk.ToString(o.OutputKey)] = awssdk.ToString(o.OutputValue)
		}
	}
	return out
}
