package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"planhub.org/internal/api"
	"planhub.org/internal/rbac"
)

func (a *app) cmdProjects(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.projectList(ctx, args)
	case "show":
		return a.projectShow(ctx, args)
	case "create":
		return a.projectCreate(ctx, args)
	case "update":
		return a.projectUpdate(ctx, args)
	case "delete":
		return a.projectDelete(ctx, args)
	case "progress":
		return a.projectProgress(ctx, args)
	case "hours":
		return a.projectHours(ctx, args)
	case "members":
		return a.projectMembers(ctx, args)
	case "member-add":
		return a.projectMemberAdd(ctx, args)
	case "member-remove":
		return a.projectMemberRemove(ctx, args)
	case "available-users":
		return a.projectAvailableUsers(ctx, args)
	default:
		return fmt.Errorf("unknown projects subcommand %q", sub)
	}
}

// idArg parses the single positional <id> most subcommands take.
func idArg(flags *pflag.FlagSet, what string) (int, error) {
	if flags.NArg() != 1 {
		return 0, fmt.Errorf("exactly one %s id is required", what)
	}
	id, err := strconv.Atoi(flags.Arg(0))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, flags.Arg(0))
	}
	return id, nil
}

func (a *app) projectList(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects list", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	projects, err := a.client.Projects(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, projects)
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.Itoa(p.ID), p.Name, p.StartDate, p.EndDate,
			fmt.Sprintf("%.0f%%", p.ProgressPercent),
		})
	}
	renderTable(a.out, []string{"ID", "NAME", "START", "END", "PROGRESS"}, rows)
	return nil
}

func (a *app) projectShow(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects show", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	p, err := a.client.Project(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, p)
	}

	fmt.Fprintln(a.out, titleStyle.Render(p.Name))
	if p.Description != "" {
		fmt.Fprintln(a.out, p.Description)
	}
	fmt.Fprintf(a.out, "%s %s → %s\n", faintStyle.Render("dates:"), p.StartDate, p.EndDate)
	fmt.Fprintf(a.out, "%s %s\n", faintStyle.Render("progress:"), progressBar(p.ProgressPercent, 24))
	return nil
}

func (a *app) projectCreate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects create", pflag.ContinueOnError)
	in := api.ProjectInput{}
	flags.StringVar(&in.Name, "name", "", "project name")
	flags.StringVar(&in.Description, "description", "", "description")
	flags.StringVar(&in.StartDate, "start", "", "start date (2006-01-02)")
	flags.StringVar(&in.EndDate, "end", "", "end date (2006-01-02)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := validateProjectInput(in); err != nil {
		return err
	}
	if err := a.requirePermission(ctx, rbac.PermCreateProjects); err != nil {
		return err
	}

	p, err := a.client.CreateProject(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Created project %q (id %d)\n", okStyle.Render("✓"), p.Name, p.ID)
	return nil
}

func (a *app) projectUpdate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects update", pflag.ContinueOnError)
	in := api.ProjectInput{}
	flags.StringVar(&in.Name, "name", "", "project name")
	flags.StringVar(&in.Description, "description", "", "description")
	flags.StringVar(&in.StartDate, "start", "", "start date (2006-01-02)")
	flags.StringVar(&in.EndDate, "end", "", "end date (2006-01-02)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if err := validateProjectInput(in); err != nil {
		return err
	}
	if err := a.requirePermission(ctx, rbac.PermCreateProjects); err != nil {
		return err
	}

	p, err := a.client.UpdateProject(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Updated project %q\n", okStyle.Render("✓"), p.Name)
	return nil
}

func (a *app) projectDelete(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects delete", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if err := a.requirePermission(ctx, rbac.PermCreateProjects); err != nil {
		return err
	}

	if err := a.client.DeleteProject(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Deleted project %d\n", okStyle.Render("✓"), id)
	return nil
}

func (a *app) projectProgress(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects progress", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	pr, err := a.client.ProjectProgress(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, progressBar(pr.ProgressPercent, 32))
	return nil
}

func (a *app) projectHours(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects hours", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	h, err := a.client.ProjectTotalHours(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%.2f hours logged\n", h.TotalHours)
	return nil
}

func (a *app) projectMembers(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects members", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	members, err := a.client.ProjectMembers(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, members)
	}
	renderUserTable(a.out, members)
	return nil
}

func (a *app) projectMemberAdd(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects member-add", pflag.ContinueOnError)
	userID := flags.Int("user", 0, "id of the user to add")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if *userID <= 0 {
		return fmt.Errorf("--user is required")
	}
	if err := a.requirePermission(ctx, rbac.PermAssignUsers); err != nil {
		return err
	}

	if err := a.client.AddProjectMember(ctx, id, *userID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Added user %d to project %d\n", okStyle.Render("✓"), *userID, id)
	return nil
}

func (a *app) projectMemberRemove(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects member-remove", pflag.ContinueOnError)
	userID := flags.Int("user", 0, "id of the user to remove")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if *userID <= 0 {
		return fmt.Errorf("--user is required")
	}
	if err := a.requirePermission(ctx, rbac.PermAssignUsers); err != nil {
		return err
	}

	if err := a.client.RemoveProjectMember(ctx, id, *userID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Removed user %d from project %d\n", okStyle.Render("✓"), *userID, id)
	return nil
}

func (a *app) projectAvailableUsers(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("projects available-users", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "project")
	if err != nil {
		return err
	}
	if err := a.requirePermission(ctx, rbac.PermAssignUsers); err != nil {
		return err
	}

	users, err := a.client.AvailableUsers(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, users)
	}
	renderUserTable(a.out, users)
	return nil
}

func renderUserTable(out io.Writer, users []api.User) {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{strconv.Itoa(u.ID), u.Username, u.FullName(), u.Role})
	}
	renderTable(out, []string{"ID", "USERNAME", "NAME", "ROLE"}, rows)
}

func validateProjectInput(in api.ProjectInput) error {
	if in.Name == "" {
		return fmt.Errorf("--name is required")
	}
	if in.StartDate == "" || in.EndDate == "" {
		return fmt.Errorf("--start and --end are required")
	}
	if in.EndDate < in.StartDate {
		return fmt.Errorf("end date must not be before the start date")
	}
	return nil
}
