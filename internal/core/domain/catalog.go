package domain

// CloudFormationTemplateType is the only provisioning artifact type synchronized to spokes.
const CloudFormationTemplateType = "CLOUD_FORMATION_TEMPLATE"

// Portfolio is a named group of products, local to an account and region.
type Portfolio struct {
	ID           string `json:"Id"`
	ARN          string `json:"ARN,omitempty"`
	DisplayName  string `json:"DisplayName"`
	ProviderName string `json:"ProviderName,omitempty"`
	Description  string `json:"Description,omitempty"`
}

// Product is a product as seen through a portfolio.
type Product struct {
	ID   string `json:"ProductId"`
	ARN  string `json:"ProductARN,omitempty"`
	Name string `json:"Name"`
}

// ProvisioningArtifact is a named, immutable version of a product.
type ProvisioningArtifact struct {
	ID     string `json:"Id"`
	Name   string `json:"Name"`
	Type   string `json:"Type"`
	Active bool   `json:"Active"`
}

// CopyStatus is the state of an asynchronous product copy.
type CopyStatus string

const (
	// CopyInProgress is reported while the copy is still running.
	CopyInProgress CopyStatus = "IN_PROGRESS"
	// CopySucceeded is the terminal success state.
	CopySucceeded CopyStatus = "SUCCEEDED"
	// CopyFailed is the terminal failure state.
	CopyFailed CopyStatus = "FAILED"
)

// CopyProductRequest describes a bulk copy of provisioning artifacts into an account.
type CopyProductRequest struct {
	SourceProductARN string
	// TargetProductID is empty when the product does not exist in the target yet.
	TargetProductID string
	ArtifactIDs     []string
	CopyTags        bool
}

// CopyProductStatus is the polled state of a copy.
type CopyProductStatus struct {
	Status          CopyStatus
	TargetProductID string
	Detail          string
}

// Stack is the described state of a CloudFormation stack.
type Stack struct {
	StackID     string            `json:"StackId"`
	StackName   string            `json:"StackName"`
	StackStatus string            `json:"StackStatus"`
	Outputs     map[string]string `json:"Outputs,omitempty"`
}

// StackRequest describes a stack to create or update.
type StackRequest struct {
	StackName        string
	TemplateBody     string
	NotificationARNs []string
}

// BuildStatus is the status of a build job.
type BuildStatus string

const (
	// BuildSucceeded is the only successful terminal status.
	BuildSucceeded BuildStatus = "SUCCEEDED"
	// BuildInProgress is reported while the build runs.
	BuildInProgress BuildStatus = "IN_PROGRESS"
)

// Build is the polled state of a build job.
type Build struct {
	ID     string
	Status BuildStatus
}

// IsTerminal reports whether the build has stopped.
func (b Build) IsTerminal() bool {
	return b.Status != BuildInProgress && b.Status != ""
}

// RoleSession identifies credentials assumed into an account for a region.
type RoleSession struct {
	AccountID   string
	RoleARN     string
	SessionName string
	Region      string
}

// PuppetSession returns the session for the execution role of an account.
func PuppetSession(account, region, prefix string) RoleSession {
	return RoleSession{
		AccountID:   account,
		RoleARN:     PuppetRoleARN(account),
		SessionName: prefix + "-" + account + "-" + region,
		Region:      region,
	}
}
