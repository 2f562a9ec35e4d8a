package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"planhub.org/internal/api"
	"planhub.org/internal/gate"
	"planhub.org/internal/rbac"
)

func (a *app) cmdTasks(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.taskList(ctx, args, false)
	case "mine":
		return a.taskList(ctx, args, true)
	case "show":
		return a.taskShow(ctx, args)
	case "create":
		return a.taskCreate(ctx, args)
	case "update":
		return a.taskUpdate(ctx, args)
	case "delete":
		return a.taskDelete(ctx, args)
	case "log-time":
		return a.taskLogTime(ctx, args)
	default:
		return fmt.Errorf("unknown tasks subcommand %q", sub)
	}
}

func (a *app) taskList(ctx context.Context, args []string, mine bool) error {
	name := "tasks list"
	if mine {
		name = "tasks mine"
	}
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	status := flags.String("status", "", "filter by status: todo, in_progress or done")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	var (
		tasks []api.Task
		err   error
	)
	if mine {
		tasks, err = a.client.MyTasks(ctx)
	} else {
		tasks, err = a.client.Tasks(ctx)
	}
	if err != nil {
		return err
	}
	if *status != "" {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.Status == *status {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}
	if *asJSON {
		return writeJSON(a.out, tasks)
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		assignee := "-"
		if t.Assignee != nil {
			assignee = strconv.Itoa(*t.Assignee)
		}
		rows = append(rows, []string{
			strconv.Itoa(t.ID), t.Title, statusCell(t.Status), t.Priority,
			assignee, fmt.Sprintf("%.1fh", t.LoggedHours),
		})
	}
	renderTable(a.out, []string{"ID", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE", "LOGGED"}, rows)
	return nil
}

func (a *app) taskShow(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("tasks show", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "task")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	t, err := a.client.Task(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, t)
	}

	fmt.Fprintln(a.out, titleStyle.Render(t.Title))
	if t.Description != "" {
		fmt.Fprintln(a.out, t.Description)
	}
	fmt.Fprintf(a.out, "%s %s   %s %s\n",
		faintStyle.Render("status:"), statusCell(t.Status),
		faintStyle.Render("priority:"), t.Priority)
	fmt.Fprintf(a.out, "%s %d   %s %.1fh\n",
		faintStyle.Render("milestone:"), t.Milestone,
		faintStyle.Render("logged:"), t.LoggedHours)

	assignee := "unassigned"
	if t.Assignee != nil {
		assignee = strconv.Itoa(*t.Assignee)
	}
	// The reassignment hint is shown only to roles that may assign.
	line := faintStyle.Render("assignee:") + " " + assignee
	fmt.Fprintln(a.out, gate.If(a.sess.CanAssignUsers(),
		line+"  "+faintStyle.Render("(tasks update --assignee to change)"),
		line))
	return nil
}

func (a *app) taskCreate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("tasks create", pflag.ContinueOnError)
	in := api.TaskInput{}
	var assignee int
	flags.StringVar(&in.Title, "title", "", "task title")
	flags.StringVar(&in.Description, "description", "", "description")
	flags.IntVar(&in.Milestone, "milestone", 0, "owning milestone id")
	flags.IntVar(&assignee, "assignee", 0, "user id to assign (manager/admin)")
	flags.StringVar(&in.Status, "status", api.TaskStatusTodo, "todo, in_progress or done")
	flags.StringVar(&in.Priority, "priority", api.TaskPriorityMedium, "low, medium or high")
	flags.StringVar(&in.DueDate, "due", "", "due date (2006-01-02)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if in.Title == "" || in.Milestone <= 0 {
		return fmt.Errorf("--title and --milestone are required")
	}
	if err := a.requirePermission(ctx, rbac.PermCreateTasks); err != nil {
		return err
	}
	if assignee > 0 {
		if !a.sess.CanAssignUsers() {
			fmt.Fprintln(a.out, gate.AccessDenied())
			return errSilent
		}
		in.Assignee = &assignee
	}

	t, err := a.client.CreateTask(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Created task %q (id %d)\n", okStyle.Render("✓"), t.Title, t.ID)
	return nil
}

func (a *app) taskUpdate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("tasks update", pflag.ContinueOnError)
	in := api.TaskInput{}
	var assignee int
	flags.StringVar(&in.Title, "title", "", "task title")
	flags.StringVar(&in.Description, "description", "", "description")
	flags.IntVar(&in.Milestone, "milestone", 0, "owning milestone id")
	flags.IntVar(&assignee, "assignee", 0, "user id to assign (manager/admin)")
	flags.StringVar(&in.Status, "status", "", "todo, in_progress or done")
	flags.StringVar(&in.Priority, "priority", "", "low, medium or high")
	flags.StringVar(&in.DueDate, "due", "", "due date (2006-01-02)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "task")
	if err != nil {
		return err
	}
	if in.Title == "" || in.Milestone <= 0 {
		return fmt.Errorf("--title and --milestone are required")
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}
	if assignee > 0 {
		if !a.sess.CanAssignUsers() {
			fmt.Fprintln(a.out, gate.AccessDenied())
			return errSilent
		}
		in.Assignee = &assignee
	}

	t, err := a.client.UpdateTask(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Updated task %q\n", okStyle.Render("✓"), t.Title)
	return nil
}

func (a *app) taskDelete(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("tasks delete", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "task")
	if err != nil {
		return err
	}
	if err := a.requirePermission(ctx, rbac.PermCreateTasks); err != nil {
		return err
	}

	if err := a.client.DeleteTask(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Deleted task %d\n", okStyle.Render("✓"), id)
	return nil
}

func (a *app) taskLogTime(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("tasks log-time", pflag.ContinueOnError)
	hours := flags.Float64("hours", 0, "hours to add, fractions allowed (1.5)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "task")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	t, err := a.client.LogTime(ctx, id, *hours)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Logged %.2fh on %q (total %.2fh)\n",
		okStyle.Render("✓"), *hours, t.Title, t.LoggedHours)
	return nil
}
