package commands

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/integration"
)

// promptSecret asks for a platform's app secret. An empty answer skips the
// SDK configuration file. Replaced in tests.
var promptSecret = func(displayName string) (string, error) {
	var secret string
	prompt := &survey.Password{
		Message: fmt.Sprintf("%s app secret (leave empty to skip):", displayName),
		Help:    "The secret is written to the platform's SDK configuration file.",
	}
	if err := survey.AskOne(prompt, &secret); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errors.NewUserError(err, "Link cancelled")
		}
		return "", errors.Wrap(err, "prompting for app secret")
	}
	return strings.TrimSpace(secret), nil
}

// pickModules lets the user choose modules from the table. An aborted
// picker returns no modules. Replaced in tests.
var pickModules = func(table *integration.Table) ([]string, error) {
	reqs := table.All()
	idx, err := fuzzyfinder.FindMulti(
		reqs,
		func(i int) string {
			return reqs[i].Name
		},
		fuzzyfinder.WithHeader("Select modules to link (Tab selects multiple)"),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return describeModule(reqs[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "module picker failed")
	}

	names := make([]string, 0, len(idx))
	for _, i := range idx {
		names = append(names, reqs[i].Name)
	}
	return names, nil
}

// describeModule renders a module for the picker preview.
func describeModule(r *integration.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nPlatforms: %s\n", r.Name, strings.Join(r.Platforms(), ", "))
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Description)
	}
	if r.IOS != nil && len(r.IOS.Pods) > 0 {
		b.WriteString("\nPods:\n")
		for _, p := range r.IOS.Pods {
			fmt.Fprintf(&b, "  %s %s\n", p.Name, p.Version)
		}
	}
	if r.Android != nil && r.Android.Project != "" {
		fmt.Fprintf(&b, "\nGradle project: %s\n", r.Android.Project)
	}
	return b.String()
}
