// Package render writes the command views: profile, net worth dashboard,
// account groups and the theme list.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/networth-tracker/networth/internal/cli/theme"
	"github.com/networth-tracker/networth/internal/models"
)

// Renderer writes views styled with the active theme
type Renderer struct {
	w io.Writer
	s theme.Styles
}

func New(w io.Writer, styles theme.Styles) *Renderer {
	return &Renderer{w: w, s: styles}
}

// Styles returns the styles in use
func (r *Renderer) Styles() theme.Styles {
	return r.s
}

// Profile prints the signed-in user
func (r *Renderer) Profile(u models.UserProfile) {
	fmt.Fprintln(r.w, r.s.Title.Render(u.DisplayName()))
	r.field("Email", u.Email)
	r.field("User ID", u.ID)
	if !u.CreatedAt.IsZero() {
		r.field("Member since", u.CreatedAt.Format("2 Jan 2006"))
	}
	if u.LastLogin != nil {
		r.field("Last login", u.LastLogin.Local().Format("2 Jan 2006 15:04"))
	}
}

func (r *Renderer) field(label, value string) {
	fmt.Fprintf(r.w, "%s %s\n", r.s.Label.Render(label+":"), r.s.Value.Render(value))
}

// Dashboard prints the net worth summary, the per-group totals and the
// account type distribution.
func (r *Renderer) Dashboard(d *models.Dashboard, user string) {
	heading := "Net Worth"
	if user != "" {
		heading = fmt.Sprintf("Net Worth · %s", user)
	}
	fmt.Fprintln(r.w, r.s.Box.Render(
		r.s.Muted.Render(heading)+"\n"+r.amount(d.TotalBalanceGBP),
	))

	if len(d.Groups) == 0 && len(d.ByAccountType) == 0 {
		fmt.Fprintln(r.w, r.s.Muted.Render("No accounts yet."))
		return
	}

	if len(d.Groups) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, r.s.Title.Render("Groups"))
		w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', tabwriter.AlignRight)
		for _, g := range d.Groups {
			fmt.Fprintf(w, "%s\t%s\t\n", g.Name, GBP(g.TotalBalanceGBP))
		}
		w.Flush()
	}

	if len(d.ByAccountType) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, r.s.Title.Render("Distribution"))
		w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', tabwriter.AlignRight)
		for _, sh := range Shares(d.TotalBalanceGBP, d.ByAccountType) {
			fmt.Fprintf(w, "%s\t%s\t%s%%\t\n", sh.Label, GBP(sh.Amount), sh.Percent.StringFixed(1))
		}
		w.Flush()
	}
}

func (r *Renderer) amount(v float64) string {
	if v < 0 {
		return r.s.Negative.Render(GBP(v))
	}
	return r.s.Value.Render(GBP(v))
}

// Groups prints the account group list
func (r *Renderer) Groups(groups []models.AccountGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(r.w, "No account groups found.")
		return
	}

	w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tACCOUNTS\tBALANCE\tUPDATED")
	fmt.Fprintln(w, "────\t────────\t───────\t───────")
	for _, g := range groups {
		updated := "-"
		if !g.UpdatedAt.IsZero() {
			updated = g.UpdatedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", g.Name, g.AccountCount, GBP(g.TotalBalanceGBP), updated)
	}
	w.Flush()
}

// Themes prints every palette, marking the active one
func (r *Renderer) Themes(current theme.Name) {
	w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	for _, name := range theme.Names() {
		p := theme.Resolve(name)
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", marker, p.Name, p.Label, p.Description)
	}
	w.Flush()
}

// Error prints a styled error line
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.w, r.s.Error.Render(msg))
}

// Notice prints a muted line
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.w, r.s.Muted.Render(msg))
}
