package themeselect

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/networth-tracker/networth/internal/cli/theme"
)

// Lookup finds a palette by name or label, ignoring case
func Lookup(nameOrLabel string) (theme.Name, error) {
	want := strings.TrimSpace(nameOrLabel)
	for _, name := range theme.Names() {
		p := theme.Resolve(name)
		if strings.EqualFold(string(p.Name), want) || strings.EqualFold(p.Label, want) {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", theme.ErrInvalidThemeName, nameOrLabel)
}

// Prompt shows an interactive list of palettes with the cursor on current
func Prompt(current theme.Name) (theme.Name, error) {
	names := theme.Names()

	type themeOption struct {
		Label       string
		Description string
		Name        theme.Name
	}

	options := make([]themeOption, len(names))
	cursor := 0
	for i, name := range names {
		p := theme.Resolve(name)
		options[i] = themeOption{
			Label:       fmt.Sprintf("%s (%s)", p.Label, p.Name),
			Description: p.Description,
			Name:        p.Name,
		}
		if name == current {
			cursor = i
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
		Details:  "{{ .Description | faint }}",
	}

	prompt := promptui.Select{
		Label:     "Select a theme",
		Items:     options,
		Templates: templates,
		Size:      len(options),
		CursorPos: cursor,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("theme selection cancelled: %w", err)
	}

	return options[index].Name, nil
}
