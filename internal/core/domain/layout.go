package domain

import (
	"fmt"
	"path/filepath"
)

const (
	// OutputDirName is the name of the directory holding task completion artifacts.
	OutputDirName = "output"

	// DataDirName is the name of the directory holding policy and share requests.
	DataDirName = "data"

	// ManifestFileName is the default name of the deployment manifest.
	ManifestFileName = "manifest.yaml"

	// PuppetRolePath is the IAM path of the execution role in every managed account.
	PuppetRolePath = "servicecatalog-puppet"

	// PuppetRoleName is the name of the execution role in every managed account.
	PuppetRoleName = "PuppetRole"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultOutputPath returns the default root of the artifact store.
func DefaultOutputPath() string {
	return OutputDirName
}

// DefaultDataPath returns the default root for policy and share requests.
func DefaultDataPath() string {
	return DataDirName
}

// PolicyRequestPath returns the file recording a bucket or topic policy request.
// Organization requests take precedence over account requests.
func PolicyRequestPath(root, kind, region, account, organization string) string {
	if organization != "" {
		return filepath.Join(root, kind, region, "organizations", organization+".json")
	}
	return filepath.Join(root, kind, region, "accounts", account+".json")
}

// PuppetRoleARN returns the execution role ARN for the given account.
func PuppetRoleARN(account string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s/%s", account, PuppetRolePath, PuppetRoleName)
}

// RegionalEventsTopicARN returns the SNS topic receiving CloudFormation events in the puppet account.
func RegionalEventsTopicARN(region, puppetAccount string) string {
	return fmt.Sprintf("arn:aws:sns:%s:%s:servicecatalog-puppet-cloudformation-regional-events", region, puppetAccount)
}
