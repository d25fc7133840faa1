package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"eventbook/config"
	adapterauth "eventbook/internal/adapters/auth"
	"eventbook/internal/adapters/ics"
	"eventbook/internal/domain"
	"eventbook/internal/query"
	"eventbook/internal/repository/kvstore"
	"eventbook/internal/scheduler"
	"eventbook/internal/services"
)

const dateTimeLayout = "2006-01-02 15:04"

func main() {
	app := &cli.App{
		Name:  "eventbook",
		Usage: "Manage calendar events stored on this device.",
		Commands: []*cli.Command{
			signupCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
			showCommand(),
			listCommand(),
			slotsCommand(),
			exportCommand(),
			importCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// env bundles the wired application for one command invocation. Every run
// opens the storage file fresh, so writes from other processes are visible
// without an explicit reload.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	kv       *kvstore.SQLiteKV
	events   domain.EventRepository
	eventSvc domain.EventService
	authSvc  domain.AuthService
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger()

	kv, err := kvstore.Open(cfg.DataPath)
	if err != nil {
		return nil, err
	}

	events := kvstore.NewEventStore(ctx, kv, logger)
	users := kvstore.NewUserStore(kv)
	authSvc := services.NewAuthService(users, events,
		adapterauth.NewBcryptHasher(10),
		adapterauth.NewJWTCodec(cfg.SessionSecret),
		cfg.SessionTTL)
	eventSvc := services.NewEventService(events, authSvc)

	return &env{
		cfg:      cfg,
		logger:   logger,
		kv:       kv,
		events:   events,
		eventSvc: eventSvc,
		authSvc:  authSvc,
	}, nil
}

func (e *env) close() {
	if err := e.kv.Close(); err != nil {
		e.logger.Warn("closing storage failed", "error", err)
	}
}

func signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Register a new local account.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true, Usage: "display name"},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			user, err := e.authSvc.SignUp(c.Context, c.String("name"), c.String("email"), c.String("password"))
			if err != nil {
				if errors.Is(err, domain.ErrDuplicateEmail) {
					return cli.Exit("an account with this email already exists", 1)
				}
				return err
			}
			fmt.Printf("Account created for %s <%s>. You can log in now.\n", user.UserName, user.Email)
			return nil
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and start a session.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			session, err := e.authSvc.Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					return cli.Exit("invalid credentials", 1)
				}
				return err
			}
			fmt.Printf("Logged in as %s <%s>.\n", session.User.UserName, session.User.Email)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "End the session and clear the event collection.",
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.authSvc.Logout(c.Context); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the logged-in identity.",
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			organizer, err := e.authSvc.CurrentOrganizer(c.Context)
			if err != nil {
				return cli.Exit("not logged in", 1)
			}
			fmt.Printf("%s <%s>\n", organizer.UserName, organizer.Email)
			return nil
		},
	}
}

func eventFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title"},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{Name: "type", Usage: "online or in_person"},
		&cli.StringFlag{Name: "location"},
		&cli.StringFlag{Name: "link", Usage: "event link for online events"},
		&cli.StringFlag{Name: "start", Usage: `start date/time, e.g. "2026-08-31 14:00"`},
		&cli.StringFlag{Name: "end", Usage: `end date/time, e.g. "2026-08-31 15:00"`},
		&cli.StringFlag{Name: "category", Usage: "tech, business, design, or other"},
	}
}

func eventFromFlags(c *cli.Context, event *domain.Event) error {
	if c.IsSet("title") {
		event.Title = c.String("title")
	}
	if c.IsSet("description") {
		event.Description = c.String("description")
	}
	if c.IsSet("type") {
		event.EventType = domain.EventType(c.String("type"))
	}
	if c.IsSet("location") {
		event.Location = c.String("location")
	}
	if c.IsSet("link") {
		event.EventLink = c.String("link")
	}
	if c.IsSet("category") {
		event.Category = domain.Category(c.String("category"))
	}
	if c.IsSet("start") {
		t, err := parseDateTime(c.String("start"))
		if err != nil {
			return err
		}
		event.Start = t
	}
	if c.IsSet("end") {
		t, err := parseDateTime(c.String("end"))
		if err != nil {
			return err
		}
		event.End = t
	}
	return nil
}

func parseDateTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q (want %q or RFC3339)", s, dateTimeLayout)
	}
	return t, nil
}

// reportOutcome renders a conflict or validation failure for the user.
// Returns nil when the mutation went through.
func reportOutcome(result *domain.ConflictResult, err error, verb string) error {
	if err != nil {
		if ve, ok := domain.AsValidationError(err); ok {
			fields := make([]string, 0, len(ve.Fields))
			for f := range ve.Fields {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			fmt.Println("The event is not valid:")
			for _, f := range fields {
				fmt.Printf("  %s: %s\n", f, ve.Fields[f])
			}
			return cli.Exit("", 1)
		}
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return cli.Exit("not logged in", 1)
		}
		return err
	}
	if result.Conflict {
		fmt.Println("The selected time overlaps with another event. Available slots for that date:")
		for _, s := range result.Suggestions {
			fmt.Printf("  %s\n", s)
		}
		return cli.Exit("", 1)
	}
	fmt.Printf("Event %s successfully.\n", verb)
	return nil
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create an event (after validation and conflict check).",
		Flags: eventFlags(),
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			event := &domain.Event{}
			if err := eventFromFlags(c, event); err != nil {
				return err
			}
			result, err := e.eventSvc.CreateEvent(c.Context, event)
			if outErr := reportOutcome(result, err, "created"); outErr != nil {
				return outErr
			}
			fmt.Printf("id: %s\n", event.ID)
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update an event by id, replacing its fields.",
		ArgsUsage: "<id>",
		Flags:     eventFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: eventbook update <id> [flags]", 1)
			}
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			event, err := e.eventSvc.GetEvent(c.Context, c.Args().First())
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return cli.Exit("no event with that id", 1)
				}
				return err
			}
			if err := eventFromFlags(c, event); err != nil {
				return err
			}
			result, err := e.eventSvc.UpdateEvent(c.Context, event)
			return reportOutcome(result, err, "updated")
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an event by id.",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: eventbook delete <id>", 1)
			}
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.eventSvc.DeleteEvent(c.Context, c.Args().First()); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return cli.Exit("no event with that id", 1)
				}
				return err
			}
			fmt.Println("Event deleted successfully.")
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one event in full.",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: eventbook show <id>", 1)
			}
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			event, err := e.eventSvc.GetEvent(c.Context, c.Args().First())
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return cli.Exit("no event with that id", 1)
				}
				return err
			}
			printEvent(event)
			return nil
		},
	}
}

func printEvent(e *domain.Event) {
	fmt.Printf("id:          %s\n", e.ID)
	fmt.Printf("title:       %s\n", e.Title)
	fmt.Printf("description: %s\n", e.Description)
	fmt.Printf("type:        %s\n", e.EventType)
	if e.Location != "" {
		fmt.Printf("location:    %s\n", e.Location)
	}
	if e.EventLink != "" {
		fmt.Printf("link:        %s\n", e.EventLink)
	}
	fmt.Printf("start:       %s\n", e.Start.Format(dateTimeLayout))
	fmt.Printf("end:         %s\n", e.End.Format(dateTimeLayout))
	fmt.Printf("category:    %s\n", e.Category)
	fmt.Printf("organizer:   %s <%s>\n", e.Organizer.UserName, e.Organizer.Email)
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List events with filters, sorting, and pagination.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "substring match on title or description"},
			&cli.StringFlag{Name: "type"},
			&cli.StringFlag{Name: "category"},
			&cli.StringFlag{Name: "from", Usage: "start of date range (2006-01-02)"},
			&cli.StringFlag{Name: "to", Usage: "end of date range (2006-01-02)"},
			&cli.StringFlag{Name: "sort", Usage: "sort key, e.g. title or startDateTime"},
			&cli.StringFlag{Name: "dir", Value: "desc", Usage: "sort direction: desc or asc"},
			&cli.IntFlag{Name: "page", Value: query.DefaultPage},
			&cli.StringFlag{Name: "query", Usage: "restore filters from an encoded query string"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			filters, err := filtersFromFlags(c)
			if err != nil {
				return err
			}

			events, err := e.eventSvc.ListEvents(c.Context)
			if err != nil {
				return err
			}
			page := domain.PaginationParams{Page: c.Int("page"), PageSize: e.cfg.PageSize}
			result := query.Events(events, filters, page)

			for _, row := range result.Rows {
				fmt.Printf("%-36s  %-25s  %-9s  %-9s  %s - %s\n",
					row.ID, truncate(row.Title, 25), row.Category, row.EventType,
					row.Start.Format(dateTimeLayout), row.End.Format(dateTimeLayout))
			}
			meta := query.NewPageMeta(page.Page, page.PageSize, result.Total)
			fmt.Printf("page %d/%d, %d event(s) total\n", meta.Page, meta.TotalPages, meta.Total)
			if encoded := filters.Encode().Encode(); encoded != "" {
				fmt.Printf("filters: %s\n", encoded)
			}
			return nil
		},
	}
}

func filtersFromFlags(c *cli.Context) (domain.Filters, error) {
	if q := c.String("query"); q != "" {
		values, err := url.ParseQuery(q)
		if err != nil {
			return domain.Filters{}, fmt.Errorf("invalid query string: %w", err)
		}
		return domain.DecodeFilters(values)
	}

	f := domain.Filters{
		Search:    c.String("search"),
		EventType: domain.EventType(c.String("type")),
		Category:  domain.Category(c.String("category")),
	}
	if key := c.String("sort"); key != "" {
		dir := domain.SortDir(c.String("dir"))
		if dir != domain.SortAsc {
			dir = domain.SortDesc
		}
		f.Sort = domain.SortSpec{Key: key, Dir: dir}
	}
	if s := c.String("from"); s != "" {
		t, err := time.ParseInLocation(domain.DateLayout, s, time.Local)
		if err != nil {
			return domain.Filters{}, fmt.Errorf("invalid --from date %q", s)
		}
		f.DateFrom = &t
	}
	if s := c.String("to"); s != "" {
		t, err := time.ParseInLocation(domain.DateLayout, s, time.Local)
		if err != nil {
			return domain.Filters{}, fmt.Errorf("invalid --to date %q", s)
		}
		f.DateTo = &t
	}
	return f, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func slotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "slots",
		Usage: "Show free time slots around the scheduled events.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "single day (2006-01-02)"},
			&cli.StringFlag{Name: "from", Usage: "start of a multi-day range (2006-01-02)"},
			&cli.StringFlag{Name: "to", Usage: "end of a multi-day range (2006-01-02)"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			events, err := e.eventSvc.ListEvents(c.Context)
			if err != nil {
				return err
			}
			busy := make([]domain.TimeRange, 0, len(events))
			for _, event := range events {
				busy = append(busy, event.Range())
			}

			var slots []domain.Slot
			switch {
			case c.IsSet("date"):
				day, err := time.ParseInLocation(domain.DateLayout, c.String("date"), time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q", c.String("date"))
				}
				slots = scheduler.FreeSlots(domain.DayWindow(day), busy)
			case c.IsSet("from") && c.IsSet("to"):
				from, err := time.ParseInLocation(domain.DateLayout, c.String("from"), time.Local)
				if err != nil {
					return fmt.Errorf("invalid --from %q", c.String("from"))
				}
				to, err := time.ParseInLocation(domain.DateLayout, c.String("to"), time.Local)
				if err != nil {
					return fmt.Errorf("invalid --to %q", c.String("to"))
				}
				window := domain.TimeRange{Start: domain.DayWindow(from).Start, End: domain.DayWindow(to).End}
				slots = scheduler.FreeSlotsByDay(window, busy)
			default:
				return cli.Exit("usage: eventbook slots --date D | --from D --to D", 1)
			}

			if len(slots) == 0 {
				fmt.Println("No free slots.")
				return nil
			}
			for _, s := range slots {
				fmt.Println(s)
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the event collection as iCalendar.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "output file (default: stdout)"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			events, err := e.eventSvc.ListEvents(c.Context)
			if err != nil {
				return err
			}
			out := os.Stdout
			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				defer f.Close()
				out = f
			}
			return ics.Encode(out, events)
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Seed the collection from an iCalendar file.",
		ArgsUsage: "<file.ics>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: eventbook import <file.ics>", 1)
			}
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Open(c.Args().First())
			if err != nil {
				return fmt.Errorf("open %s: %w", c.Args().First(), err)
			}
			defer f.Close()

			events, err := ics.Decode(f)
			if err != nil {
				return err
			}
			count, err := e.eventSvc.ImportEvents(c.Context, events)
			if err != nil {
				if errors.Is(err, domain.ErrNotAuthenticated) {
					return cli.Exit("not logged in", 1)
				}
				return err
			}
			fmt.Printf("Imported %d event(s).\n", count)
			return nil
		},
	}
}
