// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/puppet/internal/adapters/aws"
	_ "go.trai.ch/puppet/internal/adapters/cas"
	_ "go.trai.ch/puppet/internal/adapters/config"
	_ "go.trai.ch/puppet/internal/adapters/logger"
	_ "go.trai.ch/puppet/internal/adapters/template"
	// Register app and workflow nodes.
	_ "go.trai.ch/puppet/internal/app"
	_ "go.trai.ch/puppet/internal/workflow"
)
