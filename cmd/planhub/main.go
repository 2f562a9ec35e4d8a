// Command planhub is a terminal client for the PlanHub project
// management backend: projects, milestones, tasks, time logging,
// comments and attachments over its REST API, with role-based gating
// of privileged commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"planhub.org/internal/api"
	"planhub.org/internal/config"
	"planhub.org/internal/creds"
	"planhub.org/internal/gate"
	"planhub.org/internal/obs"
	"planhub.org/internal/rbac"
	"planhub.org/internal/session"
)

var version = "0.3.1"

// errSilent signals main to exit non-zero without printing again: the
// command already rendered its failure.
var errSilent = errors.New("silent exit")

type app struct {
	cfg    config.Config
	client *api.Client
	sess   *session.Store
	out    io.Writer
	errOut io.Writer
}

func main() {
	obs.Init()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "planhub: %v\n", err)
		os.Exit(1)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, errStyle.Render("planhub: "+err.Error()))
		}
		os.Exit(1)
	}
}

func newApp() (*app, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	credsPath := cfg.CredentialsPath
	if credsPath == "" {
		credsPath, err = creds.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := creds.NewFileStore(credsPath)
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.APIURL, store,
		api.WithTimeout(cfg.Timeout),
		api.WithRateLimit(cfg.RatePerSecond, cfg.RateBurst),
		api.WithSessionExpiredHook(func() {
			fmt.Fprintln(os.Stderr, gate.SignInPrompt())
		}),
	)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(client, store)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		client: client,
		sess:   sess,
		out:    os.Stdout,
		errOut: os.Stderr,
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "register":
		return a.cmdRegister(ctx, args)
	case "whoami":
		return a.cmdWhoami(ctx, args)
	case "users":
		return a.cmdUsers(ctx, args)
	case "projects":
		return a.cmdProjects(ctx, args)
	case "milestones":
		return a.cmdMilestones(ctx, args)
	case "tasks":
		return a.cmdTasks(ctx, args)
	case "comments":
		return a.cmdComments(ctx, args)
	case "attachments":
		return a.cmdAttachments(ctx, args)
	case "dashboard":
		return a.cmdDashboard(ctx, args)
	case "health":
		return a.cmdHealth(ctx, args)
	case "config":
		fmt.Fprintln(a.out, a.cfg.String())
		return nil
	case "version":
		fmt.Fprintln(a.out, "planhub "+version)
		return nil
	case "help", "-h", "--help":
		usage(a.out)
		return nil
	default:
		usage(a.errOut)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// requireRoles resolves the session and gates the command behind the
// allowed role set. An empty set admits any authenticated user. While
// the stored-token check runs, a neutral pending line is shown so a
// slow backend never flashes content the caller may not see.
func (a *app) requireRoles(ctx context.Context, allowed ...rbac.Role) error {
	fmt.Fprintln(a.errOut, gate.Pending())
	if err := a.sess.Init(ctx); err != nil && !api.IsUnauthorized(err) && !errors.Is(err, api.ErrSessionExpired) {
		return err
	}
	switch d := gate.ForRoles(a.sess, allowed...); d {
	case gate.DecisionAllowed:
		return nil
	default:
		fmt.Fprintln(a.out, gate.Render(d, "", ""))
		return errSilent
	}
}

// requirePermission gates a command behind a single permission.
func (a *app) requirePermission(ctx context.Context, perm rbac.Permission) error {
	fmt.Fprintln(a.errOut, gate.Pending())
	if err := a.sess.Init(ctx); err != nil && !api.IsUnauthorized(err) && !errors.Is(err, api.ErrSessionExpired) {
		return err
	}
	switch d := gate.ForPermission(a.sess, perm); d {
	case gate.DecisionAllowed:
		return nil
	default:
		fmt.Fprintln(a.out, gate.Render(d, "", ""))
		return errSilent
	}
}

func usage(out io.Writer) {
	fmt.Fprint(out, `planhub — project management from the terminal

Usage:
  planhub <command> [subcommand] [flags]

Session:
  login         Sign in and store tokens
  logout        Discard stored tokens
  register      Create an account (then log in)
  whoami        Show the signed-in profile, role and permissions

Data:
  projects      list | show | create | update | delete | progress | hours |
                members | member-add | member-remove | available-users
  milestones    list | show | create | update | delete
  tasks         list | mine | show | create | update | delete | log-time
  comments      list | show | create | update | delete
  attachments   list | show | upload | replace | delete
  users         create (admin)

Other:
  dashboard     Summary of projects and tasks (--watch to refresh)
  health        Probe the backend
  config        Print effective configuration
  version       Print the client version
`)
}
