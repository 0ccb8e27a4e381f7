package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/prepcat"
	"github.com/fwojciec/prepcat/browse"
)

const browseHelp = `Commands:
  home | subjects | years     go to a section
  subject <slug>              show the topics of a subject
  year <year>                 show the papers of a year
  topic <id> | paper <id>     open an item from the current subject or year
  search <text>               search topics and papers
  pick <n>                    open the n-th search result
  dismiss                     hide search results
  back                        leave the viewer
  views <id>                  show the view count of an item
  help | quit`

// Run executes the browse command, reading commands line by line until
// quit or end of input.
func (c *BrowseCmd) Run(deps *Dependencies) error {
	b := newBrowser(deps)
	defer b.close()

	fmt.Fprintln(deps.Stdout, browseHelp)
	b.render(b.nav.State())

	scanner := bufio.NewScanner(deps.Stdin)
	for {
		fmt.Fprint(deps.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(deps.Stdout)
			return scanner.Err()
		}
		quit, err := b.exec(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// browser renders navigation and search state as text.
type browser struct {
	deps    *Dependencies
	nav     *browse.Navigator
	search  *browse.SearchController
	results chan browse.Results
	unsub   []func()
	style   *styles
}

func newBrowser(deps *Dependencies) *browser {
	nav := browse.NewNavigator(deps.Catalog, deps.Views)
	search := browse.NewSearchController(deps.Search, nav, browse.TimerScheduler{})
	// Each line is a complete input, so there is nothing to debounce.
	search.Delay = 0

	b := &browser{
		deps:    deps,
		nav:     nav,
		search:  search,
		results: make(chan browse.Results, 1),
		style:   newStyles(deps.Stdout, deps.Stderr),
	}
	b.unsub = append(b.unsub,
		nav.Subscribe(b.render),
		search.Subscribe(func(res browse.Results) {
			select {
			case b.results <- res:
			default:
			}
		}),
	)
	return b
}

func (b *browser) close() {
	for _, unsub := range b.unsub {
		unsub()
	}
}

// exec runs one command line. It reports true when the session should end.
// Only context cancellation is fatal; other failures are printed.
func (b *browser) exec(line string) (bool, error) {
	ctx := b.deps.Ctx
	out := b.deps.Stdout

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch cmd {
	case "":
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(out, browseHelp)
	case "home":
		err = b.nav.GoTo(prepcat.SectionHome)
	case "subjects":
		err = b.nav.GoTo(prepcat.SectionSubjects)
	case "years":
		err = b.nav.GoTo(prepcat.SectionPreviousYears)
	case "back":
		if !b.nav.Back() {
			fmt.Fprintln(out, "Not in the viewer.")
		}
	case "subject":
		var ok bool
		if ok, err = b.nav.OpenSubject(ctx, arg); err == nil && !ok {
			fmt.Fprintf(out, "Subject not found: %s\n", arg)
		}
	case "year":
		n, convErr := strconv.Atoi(arg)
		if convErr != nil {
			fmt.Fprintf(out, "Year not found: %s\n", arg)
			break
		}
		var ok bool
		if ok, err = b.nav.OpenYear(ctx, n); err == nil && !ok {
			fmt.Fprintf(out, "Year not found: %s\n", arg)
		}
	case "topic", "paper":
		open := b.nav.OpenTopic
		if cmd == "paper" {
			open = b.nav.OpenPaper
		}
		var ok bool
		if ok, err = open(ctx, arg); err == nil && !ok {
			fmt.Fprintf(out, "No %s %q here. Open a subject or year first.\n", cmd, arg)
		}
	case "search":
		b.search.SetInput(ctx, arg)
		select {
		case res := <-b.results:
			b.showResults(res)
		case <-ctx.Done():
			return true, ctx.Err()
		}
	case "pick":
		err = b.pick(arg)
	case "dismiss":
		b.search.Dismiss()
		b.drain()
	case "views":
		var n int
		if n, err = b.deps.Views.ViewCount(ctx, arg); err == nil {
			fmt.Fprintf(out, "%s: %d views\n", arg, n)
		}
	default:
		fmt.Fprintf(out, "Unknown command %q. Type 'help' for commands.\n", cmd)
	}

	if err != nil {
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		b.printError(err)
	}
	return false, nil
}

func (b *browser) printError(err error) {
	fmt.Fprintln(b.deps.Stderr, b.style.errText.Render("error: "+prepcat.ErrorMessage(err)))
}

// pick opens the n-th shown search result.
func (b *browser) pick(arg string) error {
	res := b.search.Results()
	if res.State != browse.ResultsShown {
		fmt.Fprintln(b.deps.Stdout, "No results to pick from.")
		return nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(res.Items) {
		fmt.Fprintf(b.deps.Stdout, "Pick a number between 1 and %d.\n", len(res.Items))
		return nil
	}
	err = b.search.Select(b.deps.Ctx, res.Items[n-1])
	b.drain()
	return err
}

// drain discards a pending results notification.
func (b *browser) drain() {
	select {
	case <-b.results:
	default:
	}
}

func (b *browser) showResults(res browse.Results) {
	out := b.deps.Stdout
	switch {
	case res.Err != nil:
		b.printError(res.Err)
	case res.State == browse.ResultsHidden:
		fmt.Fprintf(out, "Type at least %d characters to search.\n", prepcat.MinQueryLength)
	case res.State == browse.ResultsEmpty:
		fmt.Fprintln(out, "No results found.")
	default:
		printResults(b.deps, res.Items)
	}
}

// render prints the section described by state.
func (b *browser) render(state browse.State) {
	out := b.deps.Stdout
	ctx := b.deps.Ctx

	active := make([]string, 0, 3)
	for _, s := range state.Section.ActiveLinks() {
		active = append(active, string(s))
	}
	header := b.style.section.Render("[" + string(state.Section) + "]")
	fmt.Fprintf(out, "\n%s  menu: %s\n", header, strings.Join(active, ", "))

	switch state.Section {
	case prepcat.SectionHome:
		fmt.Fprintln(out, "Welcome. Browse subjects or previous-year papers, or search.")
	case prepcat.SectionSubjects:
		subjects, err := b.deps.Catalog.FindSubjects(ctx)
		if err != nil {
			b.printError(err)
			return
		}
		for _, s := range subjects {
			fmt.Fprintf(out, "  %s  %s  %s\n", s.Slug, b.style.subject(s), b.style.muted.Render(fmt.Sprintf("(%d topics)", len(s.Topics))))
		}
	case prepcat.SectionSubjectDetail:
		if state.Subject == nil {
			return
		}
		fmt.Fprintf(out, "%s  %s\n", b.style.subject(state.Subject), state.Subject.Description)
		for _, t := range state.Subject.Topics {
			fmt.Fprintf(out, "  %s  %s  [%s]  %s\n", t.ID, t.Title, b.style.difficulty(t.Difficulty), strings.Join(t.DisplayTags(), ", "))
		}
	case prepcat.SectionPreviousYears:
		years, err := b.deps.Catalog.FindExamYears(ctx)
		if err != nil {
			b.printError(err)
			return
		}
		for _, y := range years {
			fmt.Fprintf(out, "  %d  (%d papers)\n", y.Year, len(y.Papers))
		}
	case prepcat.SectionYearDetail:
		if state.Year == nil {
			return
		}
		fmt.Fprintln(out, b.style.title.Render(fmt.Sprintf("%d Papers", state.Year.Year)))
		for _, p := range state.Year.Papers {
			fmt.Fprintf(out, "  %s  %s  %s\n", p.ID, p.Title, p.Category)
		}
	case prepcat.SectionViewer:
		if state.Viewing == nil {
			return
		}
		fmt.Fprintf(out, "Viewing %s  %s\n  %s\n", state.Viewing.ID, b.style.title.Render(state.Viewing.Title), state.Viewing.File)
		fmt.Fprintf(out, "  %s\n", b.style.muted.Render("back -> "+string(state.ReturnTarget)))
	}
}
