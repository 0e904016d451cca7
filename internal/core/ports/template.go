package ports

// TemplateRenderer renders infrastructure templates from typed contexts.
//
//go:generate mockgen -source=template.go -destination=mocks/mock_template.go -package=mocks
type TemplateRenderer interface {
	// Render produces the template document for name from the typed context.
	Render(name string, ctx any) (string, error)
}
