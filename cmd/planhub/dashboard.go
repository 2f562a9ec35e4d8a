package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"planhub.org/internal/api"
	"planhub.org/internal/obs"
)

func (a *app) cmdDashboard(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	watch := flags.Bool("watch", false, "refresh continuously")
	interval := flags.Duration("interval", 30*time.Second, "refresh interval in watch mode")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	if !*watch {
		return a.renderDashboard(ctx)
	}

	// Watch mode is the one long-running command, so the debug listener
	// (metrics, healthz) runs alongside it when configured.
	if a.cfg.DebugAddr != "" {
		go func() {
			if err := obs.ServeDebug(ctx, a.cfg.DebugAddr); err != nil {
				fmt.Fprintf(a.errOut, "debug listener: %v\n", err)
			}
		}()
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		if err := a.renderDashboard(ctx); err != nil {
			fmt.Fprintln(a.errOut, errStyle.Render(err.Error()))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *app) renderDashboard(ctx context.Context) error {
	projects, err := a.client.Projects(ctx)
	if err != nil {
		return err
	}
	tasks, err := a.client.MyTasks(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, headerStyle.Render("Projects"))
	for _, p := range projects {
		fmt.Fprintf(a.out, "  %-24s %s\n", p.Name, progressBar(p.ProgressPercent, 20))
	}
	if len(projects) == 0 {
		fmt.Fprintln(a.out, faintStyle.Render("  no projects yet"))
	}

	var todo, doing, done int
	var hours float64
	for _, t := range tasks {
		switch t.Status {
		case api.TaskStatusTodo:
			todo++
		case api.TaskStatusInProgress:
			doing++
		case api.TaskStatusDone:
			done++
		}
		hours += t.LoggedHours
	}

	fmt.Fprintln(a.out, headerStyle.Render("My tasks"))
	fmt.Fprintf(a.out, "  %s %d   %s %d   %s %d   %s %.1fh\n",
		faintStyle.Render("todo:"), todo,
		warnStyle.Render("in progress:"), doing,
		okStyle.Render("done:"), done,
		faintStyle.Render("logged:"), hours)

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == api.TaskStatusDone {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(t.ID), t.Title, statusCell(t.Status), t.Priority, t.DueDate,
		})
	}
	if len(rows) > 0 {
		renderTable(a.out, []string{"ID", "TITLE", "STATUS", "PRIORITY", "DUE"}, rows)
	}
	return nil
}

func (a *app) cmdHealth(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("health", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}

	h, err := a.client.HealthCheck(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, h)
	}
	if h.Status == "healthy" {
		fmt.Fprintln(a.out, okStyle.Render("backend is healthy"))
	} else {
		fmt.Fprintln(a.out, warnStyle.Render("backend reports: "+h.Status))
	}
	return nil
}
