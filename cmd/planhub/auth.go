package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"planhub.org/internal/api"
	"planhub.org/internal/rbac"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
	username := flags.StringP("username", "u", "", "account username")
	password := flags.StringP("password", "p", "", "password (omit to read from stdin)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		return fmt.Errorf("--username is required")
	}
	if *password == "" {
		fmt.Fprint(a.errOut, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	if err := a.sess.Login(ctx, *username, *password); err != nil {
		return err
	}
	user, _ := a.sess.Principal()
	fmt.Fprintf(a.out, "%s Signed in as %s (%s)\n",
		okStyle.Render("✓"), user.Username, a.sess.Role())
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, okStyle.Render("✓")+" Signed out")
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
	req := api.RegisterRequest{}
	flags.StringVar(&req.Username, "username", "", "desired username")
	flags.StringVar(&req.Email, "email", "", "email address")
	flags.StringVar(&req.FirstName, "first-name", "", "first name")
	flags.StringVar(&req.LastName, "last-name", "", "last name")
	flags.StringVar(&req.Password, "password", "", "password")
	flags.StringVar(&req.Password2, "confirm-password", "", "password confirmation")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("--username, --email and --password are required")
	}
	if req.Password != req.Password2 {
		return fmt.Errorf("passwords do not match")
	}

	if err := a.sess.Register(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, okStyle.Render("✓")+" Registration successful. Run `planhub login` to sign in.")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "output as JSON")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := a.requireRoles(ctx); err != nil {
		return err
	}

	user, _ := a.sess.Principal()
	role := a.sess.Role()
	perms := rbac.Permissions(role)

	if *asJSON {
		return writeJSON(a.out, map[string]any{
			"user":        user,
			"role":        role,
			"permissions": perms,
		})
	}

	fmt.Fprintln(a.out, titleStyle.Render(user.FullName()))
	fmt.Fprintf(a.out, "username: %s\nemail:    %s\nrole:     %s\n", user.Username, user.Email, role)
	fmt.Fprintln(a.out, faintStyle.Render("permissions:"))
	names := make([]string, 0, len(perms))
	for name := range perms {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mark := errStyle.Render("✗")
		if perms[name] {
			mark = okStyle.Render("✓")
		}
		fmt.Fprintf(a.out, "  %s %s\n", mark, name)
	}
	return nil
}

func (a *app) cmdUsers(ctx context.Context, args []string) error {
	if len(args) < 1 || args[0] != "create" {
		return fmt.Errorf("usage: planhub users create [flags]")
	}

	flags := pflag.NewFlagSet("users create", pflag.ContinueOnError)
	req := api.RegisterRequest{}
	flags.StringVar(&req.Username, "username", "", "username for the new account")
	flags.StringVar(&req.Email, "email", "", "email address")
	flags.StringVar(&req.FirstName, "first-name", "", "first name")
	flags.StringVar(&req.LastName, "last-name", "", "last name")
	flags.StringVar(&req.Password, "password", "", "initial password")
	flags.StringVar(&req.Role, "role", string(rbac.RoleUser), "role: admin, manager or user")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}
	req.Password2 = req.Password

	// Client-side gate is a courtesy; the backend enforces this again.
	if err := a.requirePermission(ctx, rbac.PermCreateUsers); err != nil {
		return err
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("--username, --email and --password are required")
	}

	user, err := a.client.CreateUser(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Created %s user %s (id %d)\n",
		okStyle.Render("✓"), user.Role, user.Username, user.ID)
	return nil
}
