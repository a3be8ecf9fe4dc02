package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcrowhurst/telos/internal/cli/formatter"
	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectArchiveCmd(app),
		newProjectRemoveCmd(app),
		newProjectInitCmd(app),
		newMilestoneCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, start, shortID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}

			p := &domain.Project{
				ID:        uuid.New().String(),
				ShortID:   strings.ToUpper(shortID),
				Name:      name,
				StartDate: startDate,
				Status:    domain.ProjectActive,
			}

			if err := app.Projects.Create(context.Background(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. PRG01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), all)
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show project details and schedule outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Resolve(ctx, projectID)
			if err != nil {
				return err
			}

			milestones, _ := app.Projects.ListMilestones(ctx, projectID)
			activities, _ := app.Schedule.ListActivities(ctx, projectID)

			items := make(map[string][]*domain.ScheduleItem)
			resp, err := app.Schedule.Resolve(ctx, contract.ScheduleRequest{ProjectRef: projectID})
			if err == nil {
				for _, r := range resp.Items {
					items[r.Item.ActivityID] = append(items[r.Item.ActivityID], r.Item)
				}
			}

			data := formatter.ProjectInspectData{
				Project:    p,
				Milestones: milestones,
				Activities: activities,
				Items:      items,
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatProjectInspect(data))
			return nil
		},
	}
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(ctx, projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", projectID)
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, projectID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", projectID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove without archiving first")

	return cmd
}

func newProjectInitCmd(app *App) *cobra.Command {
	var templateName, name, shortID, start string
	var vars []string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a project from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			varMap, err := parseVars(vars)
			if err != nil {
				return err
			}

			p, err := app.Templates.InitProject(context.Background(), templateName, name, strings.ToUpper(shortID), start, varMap)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized project %s [%s] from template %q\n", p.Name, p.ShortID, templateName)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. PRG01)")
	cmd.Flags().StringVar(&templateName, "template", "", "Template reference (integer ID from `template list`, name, schema ID, or file stem)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Template variables (key=value)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage project milestone dates",
	}

	cmd.AddCommand(
		newMilestoneSetCmd(app),
		newMilestoneListCmd(app),
		newMilestoneRemoveCmd(app),
	)

	return cmd
}

func newMilestoneSetCmd(app *App) *cobra.Command {
	var project, name, dateStr string

	cmd := &cobra.Command{
		Use:   "set KEY",
		Short: "Set or move a milestone date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			date, err := parseDateFlag("milestone", dateStr)
			if err != nil {
				return err
			}

			key := args[0]
			if name == "" {
				name = key
			}
			if err := app.Projects.SetMilestone(ctx, projectID, key, name, date); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set milestone %s = %s\n", key, date.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project reference")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the key)")
	cmd.Flags().StringVar(&dateStr, "date", "", "Milestone date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newMilestoneListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List project milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			milestones, err := app.Projects.ListMilestones(ctx, projectID)
			if err != nil {
				return err
			}

			if len(milestones) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No milestones set.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMilestoneList(milestones))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project reference")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newMilestoneRemoveCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "remove KEY",
		Short: "Remove a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			if err := app.Projects.DeleteMilestone(ctx, projectID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed milestone %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project reference")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
