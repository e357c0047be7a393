package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/qagen/internal/wizard"
	"github.com/spf13/cobra"
)

// route maps a page path to the command that implements it.
type route struct {
	Path  string
	Title string
	// Args locate the command under the root, followed by any flags that
	// make it ask for its inputs.
	Args []string
	// InSidebar marks the pages the sidebar lists; the rest are reachable
	// by path only.
	InSidebar bool
}

// defaultPath is served by the Swagger page.
const defaultPath = "/"

var routes = []route{
	{Path: "/generate", Title: "Swagger to RestAssured", Args: []string{"swagger", "run", "--interactive"}, InSidebar: true},
	{Path: "/generate-feature-file", Title: "Spira TC to Feature File", Args: []string{"feature", "--interactive"}, InSidebar: true},
	{Path: "/generate-manual-testcases", Title: "Generate Manual Test Cases", Args: []string{"manual-testcases"}},
	{Path: "/selenium-to-playwright", Title: "Selenium to Playwright", Args: []string{"selenium-to-playwright"}},
	{Path: "/resumeReview", Title: "Resume Review", Args: []string{"resume", "review", "--interactive"}},
	{Path: "/config", Title: "Config", Args: []string{"config"}},
	{Path: defaultPath, Title: "Swagger to RestAssured", Args: []string{"swagger", "run", "--interactive"}},
}

// errPageUnavailable is returned by pages that exist in the route table
// but are not part of this build.
var errPageUnavailable = errors.New("page is not available in this build")

// findRoute matches path exactly, tolerating a missing leading slash or a
// trailing one.
func findRoute(path string) (route, bool) {
	p := "/" + strings.Trim(strings.TrimSpace(path), "/")
	for _, r := range routes {
		if r.Path == p {
			return r, true
		}
	}
	return route{}, false
}

// menuItems lists the pages for the navigation menu. Without all, only
// sidebar pages are shown.
func menuItems(all bool) []wizard.MenuItem {
	var items []wizard.MenuItem
	for _, r := range routes {
		if r.Path == defaultPath || (!all && !r.InSidebar) {
			continue
		}
		items = append(items, wizard.MenuItem{Path: r.Path, Title: r.Title})
	}
	return items
}

// openRoute runs the command behind path as if it had been invoked
// directly.
func openRoute(cmd *cobra.Command, path string) error {
	r, ok := findRoute(path)
	if !ok {
		return fmt.Errorf("no page at %q; run \"qagen routes\" to list them", path)
	}
	target, rest, err := cmd.Root().Find(r.Args)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", r.Path, err)
	}
	if err := target.ParseFlags(rest); err != nil {
		return err
	}
	if target.RunE == nil {
		return target.Help()
	}
	target.SetContext(cmd.Context())
	slog.Debug("Opening page", "path", r.Path, "command", target.CommandPath())
	return target.RunE(target, target.Flags().Args())
}

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the pages and the commands that implement them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printRoutes(cmd.OutOrStdout())
			return nil
		},
	}
}

func printRoutes(w io.Writer) {
	const colPath, colTitle, colCommand = 28, 28, 24

	fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
		padRight("PATH", colPath), padRight("PAGE", colTitle), padRight("COMMAND", colCommand), "SIDEBAR")
	for _, r := range routes {
		sidebar := "—"
		if r.InSidebar {
			sidebar = "✅"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
			padRight(r.Path, colPath),
			padRight(r.Title, colTitle),
			padRight("qagen "+commandPath(r.Args), colCommand),
			sidebar)
	}
}

// commandPath drops the flags from route args.
func commandPath(args []string) string {
	var names []string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			names = append(names, a)
		}
	}
	return strings.Join(names, " ")
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func newOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Open a page by its path",
		Long: `Open a page by its path, as the browser router would.

The page asks for its inputs with a form. Without a path the default page
(Swagger to RestAssured) opens.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultPath
			if len(args) == 1 {
				path = args[0]
			}
			return openRoute(cmd, path)
		},
	}
}

func newMenuCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Choose a page from the navigation menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := wizard.RunMenu(cmd.InOrStdin(), cmd.OutOrStdout(), menuItems(all))
			if err != nil {
				return err
			}
			return openRoute(cmd, path)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include pages hidden from the sidebar")

	return cmd
}

func newManualTestcasesCommand() *cobra.Command {
	return newUnavailablePageCommand("manual-testcases", "Generate manual test cases")
}

func newSeleniumToPlaywrightCommand() *cobra.Command {
	return newUnavailablePageCommand("selenium-to-playwright", "Convert Selenium tests to Playwright")
}

func newUnavailablePageCommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:    use,
		Short:  short,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("%s: %w", short, errPageUnavailable)
		},
	}
}
