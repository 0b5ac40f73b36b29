package projections

import (
	"context"
	"errors"
)

// GetTemplateExportQuery carries query parameters.
type GetTemplateExportQuery struct {
	TemplateID string
}

// GetTemplateExportResult carries the shareable YAML document.
type GetTemplateExportResult struct {
	Name string
	YAML []byte
}

// GetTemplateExportDeps holds dependencies for GetTemplateExport.
type GetTemplateExportDeps struct {
	TemplateStore TemplateStore
	TagStore      TagStore
}

// QueryGetTemplateExport renders a template as YAML with tag names instead of IDs.
// Tags that no longer exist are left out.
func QueryGetTemplateExport(ctx context.Context, query GetTemplateExportQuery, deps GetTemplateExportDeps) (GetTemplateExportResult, error) {
	if query.TemplateID == "" {
		return GetTemplateExportResult{}, errors.New("template ID is required")
	}
	t, err := deps.TemplateStore.GetByID(ctx, query.TemplateID)
	if err != nil {
		return GetTemplateExportResult{}, err
	}
	tags, err := deps.TagStore.List(ctx, t.TeamID)
	if err != nil {
		return GetTemplateExportResult{}, err
	}
	names := make(map[string]string, len(tags))
	for _, tg := range tags {
		names[tg.ID] = tg.Name
	}
	data, err := t.MarshalYAML(func(id string) (string, bool) {
		n, ok := names[id]
		return n, ok
	})
	if err != nil {
		return GetTemplateExportResult{}, err
	}
	return GetTemplateExportResult{Name: t.Name, YAML: data}, nil
}
