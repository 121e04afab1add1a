// taskctl はタスク管理APIのターミナルクライアントです。
//
//	taskctl [global flags] <command> [command flags]
//
// Commands: register, login, logout, whoami, list, add, show, update, rm.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	"todo_backend/internal/client"
	"todo_backend/internal/schema"
)

const (
	exitSuccess      = 0
	exitFailure      = 1
	exitInvalidUsage = 2
)

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type globals struct {
	apiURL     string
	scope      string
	sessionDir string
	redisAddr  string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("taskctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var g globals
	fs.StringVar(&g.apiURL, "api", envOr("TODO_API_URL", "http://localhost:3000"), "API base URL")
	fs.StringVar(&g.scope, "scope", "default", "session scope")
	fs.StringVar(&g.sessionDir, "session-dir", "", "directory for the session file (default: user config dir)")
	fs.StringVar(&g.redisAddr, "redis", os.Getenv("TASKCTL_REDIS_ADDR"), "store the session in Redis instead of a file")
	if err := fs.Parse(args); err != nil {
		return exitInvalidUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: taskctl [flags] register|login|logout|whoami|list|add|show|update|rm")
		return exitInvalidUsage
	}

	storage, closeStorage, err := openStorage(g)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	defer closeStorage()

	api := client.NewAPI(g.apiURL, nil)
	store := client.NewStore(ctx, api, storage)
	store.Initialize(ctx)

	cmd := &command{api: api, store: store, out: stdout}
	if err := cmd.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		var uerr *usageError
		if errors.As(err, &uerr) {
			return exitInvalidUsage
		}
		return exitFailure
	}
	return exitSuccess
}

func openStorage(g globals) (client.SessionStorage, func(), error) {
	if g.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: g.redisAddr})
		return client.NewRedisStorage(rdb, "taskctl", g.scope, 0), func() { _ = rdb.Close() }, nil
	}
	if g.sessionDir != "" {
		return client.NewFileStorage(g.sessionDir, g.scope), func() {}, nil
	}
	fs, err := client.DefaultFileStorage(g.scope)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() {}, nil
}

type command struct {
	api   *client.API
	store *client.Store
	out   io.Writer
}

func (c *command) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "register":
		return c.register(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "logout":
		if err := c.store.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "logged out")
		return nil
	case "whoami":
		return c.whoami()
	case "list":
		return c.list(ctx, args)
	case "add":
		return c.add(ctx, args)
	case "show":
		return c.show(ctx, args)
	case "update":
		return c.update(ctx, args)
	case "rm":
		return c.remove(ctx, args)
	default:
		return usagef("unknown command %q", name)
	}
}

func (c *command) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 8 characters)")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}
	if err := c.store.Register(ctx, *email, *password, *name); err != nil {
		return err
	}
	return c.whoami()
}

func (c *command) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}
	if err := c.store.Login(ctx, *email, *password); err != nil {
		return err
	}
	return c.whoami()
}

func (c *command) whoami() error {
	st := c.store.State()
	if !st.Status.IsAuthenticated || st.CurrentUser == nil {
		return errors.New("not logged in")
	}
	fmt.Fprintf(c.out, "%s <%s> (%s)\n", st.CurrentUser.Name, st.CurrentUser.Email, st.CurrentUser.ID)
	return nil
}

func (c *command) token() (string, error) {
	st := c.store.State()
	if !st.Status.IsAuthenticated {
		return "", errors.New("not logged in")
	}
	return st.AuthToken, nil
}

func (c *command) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	var p client.ListTasksParams
	fs.StringVar(&p.SearchQuery, "q", "", "search task names")
	fs.StringVar(&p.FilterStatus, "status", "", "complete or incomplete")
	fs.StringVar(&p.SortBy, "sort", "", "task_name, due_date or created_at")
	fs.StringVar(&p.SortOrder, "order", "", "asc or desc")
	fs.IntVar(&p.Limit, "limit", 0, "page size")
	fs.IntVar(&p.Offset, "offset", 0, "page offset")
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}

	token, err := c.token()
	if err != nil {
		return err
	}
	tasks, err := c.api.ListTasks(ctx, token, p)
	if err != nil {
		return err
	}
	c.printTasks(tasks...)
	return nil
}

func (c *command) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	due := fs.String("due", "", "due date (YYYY-MM-DD or RFC 3339)")
	done := fs.Bool("done", false, "create as complete")
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}
	name := strings.Join(fs.Args(), " ")
	if name == "" {
		return usagef("add: task name is required")
	}

	in := schema.CreateTaskInput{TaskName: name, IsComplete: schema.Some(*done)}
	if *due != "" {
		t, err := parseDue(*due)
		if err != nil {
			return usagef("add: %v", err)
		}
		in.DueDate = schema.SomeTime(t)
	}

	token, err := c.token()
	if err != nil {
		return err
	}
	task, err := c.api.CreateTask(ctx, token, in)
	if err != nil {
		return err
	}
	c.printTasks(*task)
	return nil
}

func (c *command) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usagef("show: exactly one task id is required")
	}
	token, err := c.token()
	if err != nil {
		return err
	}
	task, err := c.api.GetTask(ctx, token, args[0])
	if err != nil {
		return err
	}
	c.printTasks(*task)
	return nil
}

func (c *command) update(ctx context.Context, args []string) error {
	fs := newFlagSet("update")
	name := fs.String("name", "", "new task name")
	due := fs.String("due", "", `new due date, or "none" to clear it`)
	done := fs.String("done", "", "true or false")
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}
	if fs.NArg() != 1 {
		return usagef("update: exactly one task id is required")
	}

	in := schema.UpdateTaskInput{TaskID: fs.Arg(0)}
	if *name != "" {
		in.TaskName = schema.Some(*name)
	}
	switch *due {
	case "":
	case "none":
		in.DueDate = schema.NullTime()
	default:
		t, err := parseDue(*due)
		if err != nil {
			return usagef("update: %v", err)
		}
		in.DueDate = schema.SomeTime(t)
	}
	if *done != "" {
		complete := *done == "true"
		if !complete && *done != "false" {
			return usagef("update: -done must be true or false")
		}
		in.IsComplete = schema.Some(complete)
	}

	token, err := c.token()
	if err != nil {
		return err
	}
	task, err := c.api.UpdateTask(ctx, token, in)
	if err != nil {
		return err
	}
	c.printTasks(*task)
	return nil
}

func (c *command) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usagef("rm: exactly one task id is required")
	}
	token, err := c.token()
	if err != nil {
		return err
	}
	if err := c.api.DeleteTask(ctx, token, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "deleted", args[0])
	return nil
}

func (c *command) printTasks(tasks ...client.Task) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tDUE\tNAME")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = *t.DueDate
		}
		mark := " "
		if t.IsComplete {
			mark = "x"
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\n", t.TaskID, mark, due, t.TaskName)
	}
	_ = w.Flush()
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseDue(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
