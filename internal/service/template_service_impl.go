package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/repository"
	tmpl "github.com/dcrowhurst/telos/internal/template"
	"github.com/google/uuid"
)

type templateService struct {
	templateDir string
	projects    repository.ProjectRepo
	activities  repository.ActivityRepo
	items       repository.ScheduleItemRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

type templateEntry struct {
	Index  int
	Path   string
	Schema *tmpl.Schema
}

func NewTemplateService(
	templateDir string,
	projects repository.ProjectRepo,
	activities repository.ActivityRepo,
	items repository.ScheduleItemRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TemplateService {
	return &templateService{
		templateDir: templateDir,
		projects:    projects,
		activities:  activities,
		items:       items,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *templateService) List(ctx context.Context) ([]TemplateInfo, error) {
	entries, err := s.loadTemplateEntries()
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	infos := make([]TemplateInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, TemplateInfo{
			NumericID: entry.Index,
			ID:        entry.Schema.ID,
			Name:      entry.Schema.Name,
			Version:   entry.Schema.Version,
			Path:      entry.Path,
		})
	}
	return infos, nil
}

func (s *templateService) Get(ctx context.Context, name string) (*tmpl.Schema, error) {
	entry, err := s.resolveTemplate(name)
	if err != nil {
		return nil, err
	}
	return entry.Schema, nil
}

// InitProject creates a project and its full schedule from a template in one
// transaction.
func (s *templateService) InitProject(ctx context.Context, templateName, projectName, shortID, startDate string, vars map[string]string) (project *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"template": templateName, "project": projectName}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "init-project",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	entry, err := s.resolveTemplate(templateName)
	if err != nil {
		return nil, err
	}
	if errs := tmpl.ValidateSchema(entry.Schema); len(errs) > 0 {
		return nil, fmt.Errorf("template %q is invalid: %v", templateName, errs[0])
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q (want YYYY-MM-DD)", startDate)
	}

	now := time.Now().UTC()
	project = &domain.Project{
		ID:         uuid.New().String(),
		ShortID:    shortID,
		Name:       projectName,
		StartDate:  start,
		TemplateID: entry.Schema.ID,
		Status:     domain.ProjectActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err = project.ValidateShortID(); err != nil {
		return nil, err
	}

	generated, err := tmpl.Generate(entry.Schema, project.ID, vars, now)
	if err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	fields["activity_count"] = len(generated.Activities)
	fields["item_count"] = len(generated.Items)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txItems := repository.NewSQLiteScheduleItemRepo(tx)
		txRules := repository.NewSQLiteRuleRepo(tx)

		if err := txProjects.Create(ctx, project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, rule := range generated.Rules {
			if err := txRules.Create(ctx, rule); err != nil {
				return fmt.Errorf("creating rule %q: %w", rule.Name, err)
			}
		}
		for i := range generated.Clauses {
			if err := txRules.CreateClause(ctx, &generated.Clauses[i]); err != nil {
				return fmt.Errorf("creating rule clause: %w", err)
			}
		}
		for _, activity := range generated.Activities {
			if err := txActivities.Create(ctx, activity); err != nil {
				return fmt.Errorf("creating activity %q: %w", activity.Name, err)
			}
		}
		for _, item := range generated.Items {
			if err := txItems.Create(ctx, item); err != nil {
				return fmt.Errorf("creating item %q: %w", item.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Sync re-diffs a project against its originating template and, unless
// DryRun is set, applies the plan in one transaction. Instances tied to
// removed items are deleted with them.
func (s *templateService) Sync(ctx context.Context, req contract.SyncRequest) (resp *contract.SyncResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": req.ProjectRef, "dry_run": req.DryRun}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "template-sync",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	project, err := resolveProjectRef(ctx, s.projects, req.ProjectRef)
	if err != nil {
		return nil, &contract.SyncError{
			Code:    contract.SyncErrProjectNotFound,
			Message: fmt.Sprintf("project %q not found", req.ProjectRef),
		}
	}
	if project.TemplateID == "" {
		return nil, &contract.SyncError{
			Code:    contract.SyncErrNoTemplate,
			Message: fmt.Sprintf("project %s was not initialized from a template", project.DisplayID()),
		}
	}

	entry, err := s.resolveTemplate(project.TemplateID)
	if err != nil {
		return nil, &contract.SyncError{
			Code:    contract.SyncErrTemplateNotFound,
			Message: fmt.Sprintf("template %q not found in %s", project.TemplateID, s.templateDir),
		}
	}

	activities, err := s.activities.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}
	items, err := s.items.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	plan, err := tmpl.PlanSync(entry.Schema, project.ID, activities, items, req.Vars, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("planning sync: %w", err)
	}
	fields["added"] = len(plan.Added)
	fields["updated"] = len(plan.Updated)
	fields["removed"] = len(plan.Removed)

	resp = &contract.SyncResponse{
		GeneratedAt: time.Now().UTC(),
		ProjectID:   project.ID,
		Template:    entry.Schema.ID,
		Plan:        plan,
	}
	if req.DryRun || plan.Empty() {
		return resp, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txItems := repository.NewSQLiteScheduleItemRepo(tx)
		txRules := repository.NewSQLiteRuleRepo(tx)

		for _, rule := range plan.AddedRules {
			if err := txRules.Create(ctx, rule); err != nil {
				return fmt.Errorf("creating rule %q: %w", rule.Name, err)
			}
		}
		for i := range plan.AddedClauses {
			if err := txRules.CreateClause(ctx, &plan.AddedClauses[i]); err != nil {
				return fmt.Errorf("creating rule clause: %w", err)
			}
		}
		for _, activity := range plan.AddedActivities {
			if err := txActivities.Create(ctx, activity); err != nil {
				return fmt.Errorf("creating activity %q: %w", activity.Name, err)
			}
		}
		for _, item := range plan.Added {
			if err := txItems.Create(ctx, item); err != nil {
				return fmt.Errorf("creating item %q: %w", item.Name, err)
			}
		}
		for _, item := range plan.Updated {
			if err := txItems.Update(ctx, item); err != nil {
				return fmt.Errorf("updating item %q: %w", item.Name, err)
			}
		}
		for _, item := range plan.Removed {
			// Instance rows cascade via the item foreign key.
			if err := txItems.Delete(ctx, item.ID); err != nil {
				return fmt.Errorf("removing item %q: %w", item.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Applied = true
	return resp, nil
}

func (s *templateService) resolveTemplate(name string) (*templateEntry, error) {
	input := strings.TrimSpace(name)
	if input == "" {
		return nil, fmt.Errorf("template '%s' not found: empty template name", name)
	}

	entries, err := s.loadTemplateEntries()
	if err != nil {
		return nil, fmt.Errorf("template '%s' not found: listing templates: %w", name, err)
	}

	// Resolve by file stem, filename, schema ID, or display name (case-insensitive).
	for i := range entries {
		entry := &entries[i]
		fileStem := strings.TrimSuffix(filepath.Base(entry.Path), filepath.Ext(entry.Path))
		filename := filepath.Base(entry.Path)
		if strings.EqualFold(fileStem, input) ||
			strings.EqualFold(filename, input) ||
			strings.EqualFold(entry.Schema.ID, input) ||
			strings.EqualFold(entry.Schema.Name, input) {
			return entry, nil
		}
	}

	// Resolve by integer selector from `template list`.
	if numericID, err := strconv.Atoi(input); err == nil {
		for i := range entries {
			entry := &entries[i]
			if entry.Index == numericID {
				return entry, nil
			}
		}
	}

	stemPath := filepath.Join(s.templateDir, input+".json")
	return nil, fmt.Errorf("template '%s' not found: open %s: no such file or directory", name, stemPath)
}

func (s *templateService) loadTemplateEntries() ([]templateEntry, error) {
	files, err := filepath.Glob(filepath.Join(s.templateDir, "*.json"))
	if err != nil {
		return nil, err
	}

	entries := make([]templateEntry, 0, len(files))
	for _, file := range files {
		schema, err := tmpl.LoadSchema(file)
		if err != nil {
			continue // skip invalid templates
		}

		entries = append(entries, templateEntry{
			Index:  len(entries) + 1,
			Path:   file,
			Schema: schema,
		})
	}

	return entries, nil
}
