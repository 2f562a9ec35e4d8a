package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"planhub.org/internal/api"
)

func (a *app) cmdComments(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.commentList(ctx, args)
	case "show":
		return a.commentShow(ctx, args)
	case "create":
		return a.commentCreate(ctx, args)
	case "update":
		return a.commentUpdate(ctx, args)
	case "delete":
		return a.commentDelete(ctx, args)
	default:
		return fmt.Errorf("unknown comments subcommand %q", sub)
	}
}

func (a *app) commentList(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("comments list", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	task := flags.Int("task", 0, "only comments on this task")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	comments, err := a.client.Comments(ctx)
	if err != nil {
		return err
	}
	if *task > 0 {
		kept := comments[:0]
		for _, c := range comments {
			if c.Task != nil && *c.Task == *task {
				kept = append(kept, c)
			}
		}
		comments = kept
	}
	if *asJSON {
		return writeJSON(a.out, comments)
	}

	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		author := "-"
		if c.User != nil {
			author = c.User.Username
		}
		taskCell := "-"
		if c.Task != nil {
			taskCell = strconv.Itoa(*c.Task)
		}
		rows = append(rows, []string{
			strconv.Itoa(c.ID), author, taskCell, excerpt(c.Content, 60),
		})
	}
	renderTable(a.out, []string{"ID", "AUTHOR", "TASK", "CONTENT"}, rows)
	return nil
}

func (a *app) commentShow(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("comments show", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "comment")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	c, err := a.client.Comment(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, c)
	}
	if c.User != nil {
		fmt.Fprintln(a.out, titleStyle.Render(c.User.FullName()))
	}
	if !c.CreatedAt.IsZero() {
		fmt.Fprintln(a.out, faintStyle.Render(c.CreatedAt.Format("2006-01-02 15:04")))
	}
	fmt.Fprintln(a.out, c.Content)
	return nil
}

func (a *app) commentCreate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("comments create", pflag.ContinueOnError)
	content := flags.String("content", "", "comment text")
	task := flags.Int("task", 0, "task to attach the comment to")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*content) == "" {
		return fmt.Errorf("--content is required")
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	in := api.CommentInput{Content: *content}
	if *task > 0 {
		in.Task = task
	}
	c, err := a.client.CreateComment(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Posted comment %d\n", okStyle.Render("✓"), c.ID)
	return nil
}

func (a *app) commentUpdate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("comments update", pflag.ContinueOnError)
	content := flags.String("content", "", "replacement text")
	task := flags.Int("task", 0, "task the comment belongs to")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "comment")
	if err != nil {
		return err
	}
	if strings.TrimSpace(*content) == "" {
		return fmt.Errorf("--content is required")
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	in := api.CommentInput{Content: *content}
	if *task > 0 {
		in.Task = task
	}
	if _, err := a.client.UpdateComment(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Updated comment %d\n", okStyle.Render("✓"), id)
	return nil
}

func (a *app) commentDelete(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("comments delete", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "comment")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	if err := a.client.DeleteComment(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Deleted comment %d\n", okStyle.Render("✓"), id)
	return nil
}

func excerpt(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
