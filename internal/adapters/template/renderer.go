// Package template renders the CloudFormation documents applied to spoke portfolios.
package template

import (
	"bytes"
	"fmt"
	"strings"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const formatVersion = "2010-09-09"

type document struct {
	AWSTemplateFormatVersion string              `yaml:"AWSTemplateFormatVersion"`
	Description              string              `yaml:"Description"`
	Resources                map[string]resource `yaml:"Resources"`
}

type resource struct {
	Type       string         `yaml:"Type"`
	Properties map[string]any `yaml:"Properties"`
}

// Renderer implements ports.TemplateRenderer.
type Renderer struct{}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render produces the template document for name from the typed context.
func (r *Renderer) Render(name string, ctx any) (string, error) {
	var (
		doc document
		err error
	)
	switch name {
	case domain.AssociationsTemplate:
		c, ok := asAssociations(ctx)
		if !ok {
			return "", wrongContext(name, ctx)
		}
		doc = associations(c)
	case domain.LaunchConstraintsTemplate:
		c, ok := asLaunchConstraints(ctx)
		if !ok {
			return "", wrongContext(name, ctx)
		}
		doc, err = launchConstraints(c)
		if err != nil {
			return "", err
		}
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrTemplateNotFound, "render"), "template", name)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrTemplateRenderFailed.Error()), "template", name)
	}
	if err := enc.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrTemplateRenderFailed.Error()), "template", name)
	}
	return buf.String(), nil
}

func associations(c domain.AssociationsContext) document {
	doc := document{
		AWSTemplateFormatVersion: formatVersion,
		Description:              fmt.Sprintf("Associations for portfolio %s (%s)", c.PortfolioName, c.PortfolioID),
		Resources:                make(map[string]resource, len(c.PrincipalARNs)),
	}
	for i, arn := range c.PrincipalARNs {
		doc.Resources[fmt.Sprintf("Association%d", i)] = resource{
			Type: "AWS::ServiceCatalog::PortfolioPrincipalAssociation",
			Properties: map[string]any{
				"PortfolioId":   c.PortfolioID,
				"PrincipalARN":  sub(arn),
				"PrincipalType": "IAM",
			},
		}
	}
	return doc
}

// launchConstraints emits one constraint per product and role.
// A product named by a constraint must be present in the portfolio.
func launchConstraints(c domain.LaunchConstraintsContext) (document, error) {
	doc := document{
		AWSTemplateFormatVersion: formatVersion,
		Description:              fmt.Sprintf("Launch role constraints for portfolio %s (%s)", c.PortfolioName, c.PortfolioID),
		Resources:                make(map[string]resource),
	}
	seen := make(map[string]bool)
	for _, lc := range c.Constraints {
		for _, product := range lc.Products {
			productID, ok := c.ProductIDs[product]
			if !ok {
				return document{}, zerr.With(zerr.With(
					zerr.Wrap(domain.ErrPreconditionViolated, "launch constraint names a product missing from the portfolio"),
					"product", product), "portfolio", c.PortfolioName)
			}
			for _, role := range lc.Roles {
				if seen[productID+"|"+role] {
					continue
				}
				seen[productID+"|"+role] = true
				logicalID := fmt.Sprintf("LaunchRoleConstraint%s%d", alnum(productID), len(doc.Resources))
				doc.Resources[logicalID] = resource{
					Type: "AWS::ServiceCatalog::LaunchRoleConstraint",
					Properties: map[string]any{
						"PortfolioId": c.PortfolioID,
						"ProductId":   productID,
						"RoleArn":     sub(role),
					},
				}
			}
		}
	}
	return doc, nil
}

// sub lets role ARNs reference pseudo parameters such as ${AWS::AccountId}.
func sub(s string) any {
	if strings.Contains(s, "${") {
		return map[string]string{"Fn::Sub": s}
	}
	return s
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func asAssociations(ctx any) (domain.AssociationsContext, bool) {
	switch c := ctx.(type) {
	case domain.AssociationsContext:
		return c, true
	case *domain.AssociationsContext:
		if c != nil {
			return *c, true
		}
	}
	return domain.AssociationsContext{}, false
}

func asLaunchConstraints(ctx any) (domain.LaunchConstraintsContext, bool) {
	switch c := ctx.(type) {
	case domain.LaunchConstraintsContext:
		return c, true
	case *domain.LaunchConstraintsContext:
		if c != nil {
			return *c, true
		}
	}
	return domain.LaunchConstraintsContext{}, false
}

func wrongContext(name string, ctx any) error {
	return zerr.With(zerr.With(
		zerr.Wrap(domain.ErrTemplateRenderFailed, "unexpected template context"),
		"template", name), "context", fmt.Sprintf("%T", ctx))
}
