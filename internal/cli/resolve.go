package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// resolveProjectID resolves a project reference which can be a ShortID
// (case-insensitive), a full UUID, or a unique UUID prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	if p, err := app.Projects.Resolve(ctx, input); err == nil {
		return p.ID, nil
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveSupplierID resolves a supplier reference: code (case-insensitive),
// full UUID, or unique UUID prefix.
func resolveSupplierID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("supplier is required")
	}

	if s, err := app.Suppliers.Resolve(ctx, input); err == nil {
		return s.ID, nil
	}

	suppliers, err := app.Suppliers.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, s := range suppliers {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("supplier not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("supplier prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// parseDateFlag parses a required YYYY-MM-DD flag value.
func parseDateFlag(name, value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q: %w", name, value, err)
	}
	return d, nil
}

// parseVars parses repeated key=value flag values into a map.
func parseVars(vals []string) (map[string]string, error) {
	varMap := make(map[string]string)
	for _, v := range vals {
		parts := strings.SplitN(v, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --var format %q, expected key=value", v)
		}
		varMap[parts[0]] = parts[1]
	}
	return varMap, nil
}
