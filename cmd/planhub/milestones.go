package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"planhub.org/internal/api"
	"planhub.org/internal/rbac"
)

func (a *app) cmdMilestones(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.milestoneList(ctx, args)
	case "show":
		return a.milestoneShow(ctx, args)
	case "create":
		return a.milestoneCreate(ctx, args)
	case "update":
		return a.milestoneUpdate(ctx, args)
	case "delete":
		return a.milestoneDelete(ctx, args)
	default:
		return fmt.Errorf("unknown milestones subcommand %q", sub)
	}
}

func (a *app) milestoneList(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("milestones list", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	project := flags.Int("project", 0, "only milestones of this project")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	milestones, err := a.client.Milestones(ctx)
	if err != nil {
		return err
	}
	if *project > 0 {
		kept := milestones[:0]
		for _, m := range milestones {
			if m.Project == *project {
				kept = append(kept, m)
			}
		}
		milestones = kept
	}
	if *asJSON {
		return writeJSON(a.out, milestones)
	}

	rows := make([][]string, 0, len(milestones))
	for _, m := range milestones {
		rows = append(rows, []string{
			strconv.Itoa(m.ID), m.Title, m.DueDate, strconv.Itoa(m.Project),
		})
	}
	renderTable(a.out, []string{"ID", "TITLE", "DUE", "PROJECT"}, rows)
	return nil
}

func (a *app) milestoneShow(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("milestones show", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "milestone")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	m, err := a.client.Milestone(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, m)
	}
	fmt.Fprintln(a.out, titleStyle.Render(m.Title))
	fmt.Fprintf(a.out, "%s %s\n", faintStyle.Render("due:"), m.DueDate)
	fmt.Fprintf(a.out, "%s %d\n", faintStyle.Render("project:"), m.Project)
	return nil
}

func (a *app) milestoneCreate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("milestones create", pflag.ContinueOnError)
	in := api.MilestoneInput{}
	flags.StringVar(&in.Title, "title", "", "milestone title")
	flags.StringVar(&in.DueDate, "due", "", "due date (2006-01-02)")
	flags.IntVar(&in.Project, "project", 0, "owning project id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if in.Title == "" || in.DueDate == "" || in.Project <= 0 {
		return fmt.Errorf("--title, --due and --project are required")
	}
	if err := a.requirePermission(ctx, rbac.PermCreateMilestones); err != nil {
		return err
	}

	m, err := a.client.CreateMilestone(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Created milestone %q (id %d)\n", okStyle.Render("✓"), m.Title, m.ID)
	return nil
}

func (a *app) milestoneUpdate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("milestones update", pflag.ContinueOnError)
	in := api.MilestoneInput{}
	flags.StringVar(&in.Title, "title", "", "milestone title")
	flags.StringVar(&in.DueDate, "due", "", "due date (2006-01-02)")
	flags.IntVar(&in.Project, "project", 0, "owning project id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "milestone")
	if err != nil {
		return err
	}
	if in.Title == "" || in.DueDate == "" || in.Project <= 0 {
		return fmt.Errorf("--title, --due and --project are required")
	}
	if err := a.requirePermission(ctx, rbac.PermCreateMilestones); err != nil {
		return err
	}

	m, err := a.client.UpdateMilestone(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Updated milestone %q\n", okStyle.Render("✓"), m.Title)
	return nil
}

func (a *app) milestoneDelete(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("milestones delete", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "milestone")
	if err != nil {
		return err
	}
	if err := a.requirePermission(ctx, rbac.PermCreateMilestones); err != nil {
		return err
	}

	if err := a.client.DeleteMilestone(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Deleted milestone %d\n", okStyle.Render("✓"), id)
	return nil
}
