package main

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"planhub.org/internal/api"
)

func TestPad(t *testing.T) {
	if got := pad("ab", 5); got != "ab   " {
		t.Fatalf("pad = %q", got)
	}
	if got := pad("abcdef", 3); got != "abcdef" {
		t.Fatalf("pad must not truncate: %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	if got := excerpt("short", 60); got != "short" {
		t.Fatalf("excerpt = %q", got)
	}
	long := strings.Repeat("x", 80)
	got := excerpt(long, 10)
	if len(got) > 10+len("…") {
		t.Fatalf("excerpt too long: %q", got)
	}
	if got := excerpt("two\nlines", 60); strings.Contains(got, "\n") {
		t.Fatalf("newlines must be flattened: %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(50, 10); !strings.Contains(got, "50.0%") {
		t.Fatalf("progressBar = %q", got)
	}
	if got := progressBar(-5, 10); !strings.Contains(got, "0.0%") {
		t.Fatalf("negative percent must clamp: %q", got)
	}
	if got := progressBar(250, 10); !strings.Contains(got, "100.0%") {
		t.Fatalf("overflow percent must clamp: %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	var buf strings.Builder
	renderTable(&buf, []string{"ID", "NAME"}, [][]string{
		{"1", "alpha"},
		{"22", "beta"},
	})
	out := buf.String()
	for _, want := range []string{"ID", "NAME", "alpha", "beta"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", lines)
	}
}

func TestIDArg(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "valid", args: []string{"42"}, want: 42},
		{name: "missing", args: nil, wantErr: true},
		{name: "extra", args: []string{"1", "2"}, wantErr: true},
		{name: "not a number", args: []string{"abc"}, wantErr: true},
		{name: "non-positive", args: []string{"0"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			if err := flags.Parse(tc.args); err != nil {
				t.Fatalf("parse: %v", err)
			}
			got, err := idArg(flags, "thing")
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("idArg: %v", err)
			}
			if got != tc.want {
				t.Fatalf("idArg = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestValidateProjectInput(t *testing.T) {
	ok := api.ProjectInput{Name: "x", StartDate: "2026-01-01", EndDate: "2026-06-30"}
	if err := validateProjectInput(ok); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	bad := ok
	bad.EndDate = "2025-12-31"
	if err := validateProjectInput(bad); err == nil {
		t.Fatal("end before start must be rejected")
	}

	bad = ok
	bad.Name = ""
	if err := validateProjectInput(bad); err == nil {
		t.Fatal("missing name must be rejected")
	}
}
