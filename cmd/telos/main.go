package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dcrowhurst/telos/internal/cli"
	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/repository"
	"github.com/dcrowhurst/telos/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.telos/telos.db
	dbPath := os.Getenv("TELOS_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".telos", "telos.db")
	}

	// Determine template directory
	templateDir := os.Getenv("TELOS_TEMPLATES")
	if templateDir == "" {
		// Check for ./templates in current directory first (development)
		if stat, err := os.Stat("./templates"); err == nil && stat.IsDir() {
			templateDir = "./templates"
		} else {
			// Fall back to ~/.telos/templates (production)
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}
			templateDir = filepath.Join(home, ".telos", "templates")
		}
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	supplierRepo := repository.NewSQLiteSupplierRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	milestoneRepo := repository.NewSQLiteMilestoneRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	itemRepo := repository.NewSQLiteScheduleItemRepo(database)
	instanceRepo := repository.NewSQLiteInstanceRepo(database)
	ruleRepo := repository.NewSQLiteRuleRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	// Mutating use cases log to stderr when TELOS_DEBUG is set.
	var observers []service.UseCaseObserver
	if os.Getenv("TELOS_DEBUG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo, milestoneRepo),
		Suppliers:   service.NewSupplierService(supplierRepo, assignmentRepo, activityRepo, itemRepo, instanceRepo, ruleRepo, settingsRepo, uow, observers...),
		Schedule:    service.NewScheduleService(projectRepo, supplierRepo, activityRepo, itemRepo, instanceRepo, milestoneRepo),
		Propagation: service.NewPropagationService(projectRepo, supplierRepo, itemRepo, instanceRepo, milestoneRepo, uow, observers...),
		Templates:   service.NewTemplateService(templateDir, projectRepo, activityRepo, itemRepo, uow, observers...),
		Instances:   service.NewInstanceService(instanceRepo, assignmentRepo),
		Settings:    service.NewSettingsService(settingsRepo),
	}

	// Detect interactive terminal for prompt-driven flows.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
