package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/pflag"
)

func (a *app) cmdAttachments(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.attachmentList(ctx, args)
	case "show":
		return a.attachmentShow(ctx, args)
	case "upload":
		return a.attachmentUpload(ctx, args, false)
	case "replace":
		return a.attachmentUpload(ctx, args, true)
	case "delete":
		return a.attachmentDelete(ctx, args)
	default:
		return fmt.Errorf("unknown attachments subcommand %q", sub)
	}
}

func (a *app) attachmentList(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("attachments list", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	task := flags.Int("task", 0, "only attachments of this task")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	attachments, err := a.client.Attachments(ctx)
	if err != nil {
		return err
	}
	if *task > 0 {
		kept := attachments[:0]
		for _, at := range attachments {
			if at.Task != nil && *at.Task == *task {
				kept = append(kept, at)
			}
		}
		attachments = kept
	}
	if *asJSON {
		return writeJSON(a.out, attachments)
	}

	rows := make([][]string, 0, len(attachments))
	for _, at := range attachments {
		taskCell := "-"
		if at.Task != nil {
			taskCell = strconv.Itoa(*at.Task)
		}
		uploaded := ""
		if !at.UploadedAt.IsZero() {
			uploaded = at.UploadedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{strconv.Itoa(at.ID), taskCell, at.File, uploaded})
	}
	renderTable(a.out, []string{"ID", "TASK", "FILE", "UPLOADED"}, rows)
	return nil
}

func (a *app) attachmentShow(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("attachments show", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "attachment")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	at, err := a.client.Attachment(ctx, id)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(a.out, at)
	}
	fmt.Fprintf(a.out, "%s %s\n", faintStyle.Render("file:"), at.File)
	if at.Task != nil {
		fmt.Fprintf(a.out, "%s %d\n", faintStyle.Render("task:"), *at.Task)
	}
	if !at.UploadedAt.IsZero() {
		fmt.Fprintf(a.out, "%s %s\n", faintStyle.Render("uploaded:"), at.UploadedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// attachmentUpload serves both upload (POST) and replace (PUT on an
// existing record).
func (a *app) attachmentUpload(ctx context.Context, args []string, replace bool) error {
	name := "attachments upload"
	if replace {
		name = "attachments replace"
	}
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	path := flags.String("file", "", "path of the file to send")
	task := flags.Int("task", 0, "task to link the attachment to")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("--file is required")
	}

	var id int
	if replace {
		var err error
		if id, err = idArg(flags, "attachment"); err != nil {
			return err
		}
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("open %s: %w", *path, err)
	}
	defer f.Close()

	var taskID *int
	if *task > 0 {
		taskID = task
	}

	filename := filepath.Base(*path)
	if replace {
		at, err := a.client.ReplaceAttachment(ctx, id, filename, f, taskID)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s Replaced attachment %d (%s)\n", okStyle.Render("✓"), at.ID, at.File)
		return nil
	}
	at, err := a.client.UploadAttachment(ctx, filename, f, taskID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Uploaded %s as attachment %d\n", okStyle.Render("✓"), filename, at.ID)
	return nil
}

func (a *app) attachmentDelete(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("attachments delete", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := idArg(flags, "attachment")
	if err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	if err := a.client.DeleteAttachment(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Deleted attachment %d\n", okStyle.Render("✓"), id)
	return nil
}
