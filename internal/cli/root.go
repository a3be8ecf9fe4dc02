package cli

import (
	"github.com/dcrowhurst/telos/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Suppliers   service.SupplierService
	Schedule    service.ScheduleService
	Propagation service.PropagationService
	Templates   service.TemplateService
	Instances   service.InstanceService
	Settings    service.SettingsService

	// IsInteractive reports whether stdin is a terminal. Interactive-only
	// prompts (the propagate supplier picker) are skipped when it is nil
	// or returns false.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "telos" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "telos",
		Short: "Supplier milestone tracker",
	}

	root.AddCommand(
		newProjectCmd(app),
		newSupplierCmd(app),
		newScheduleCmd(app),
		newItemCmd(app),
		newPropagateCmd(app),
		newTemplateCmd(app),
		newInstanceCmd(app),
		newConfigCmd(app),
	)

	return root
}
