package browser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"jobmate/directory-service/internal/controller"
	"jobmate/directory-service/internal/listing"
	"jobmate/directory-service/pkg/logging"
)

// ErrQuit is returned by Session.Exec for the quit command.
var ErrQuit = errors.New("quit")

const helpText = `commands:
  dept <tag>        toggle a department filter
  company <slug>    toggle a company filter
  search <text>     set the search text (empty clears it)
  page <n>          go to page n
  next, prev        move one page
  open <location>   navigate to a new location, e.g. open /jobs?q=go
  back, forward     move through history
  url               print the current location
  help              show this help
  quit              exit
`

// Session is one interactive browsing session: an address bar, a listing
// controller mounted on the seed for its first location, and a renderer.
type Session struct {
	remote   Remote
	bar      *AddressBar
	ctrl     *controller.Controller
	out      io.Writer
	basePath string
	log      *logging.Logger
}

// Open fetches the seed for location and mounts a controller on it. A seed
// that fails to load is rendered as a page message and the session starts
// from the default state.
func Open(ctx context.Context, remote Remote, location string, out io.Writer, log *logging.Logger) *Session {
	basePath, _, _ := strings.Cut(location, "?")
	if basePath == "" {
		basePath = listing.JobsPath
	}

	s := &Session{
		remote:   remote,
		bar:      NewAddressBar(location),
		out:      out,
		basePath: basePath,
		log:      log,
	}

	seed, err := remote.FetchSeed(ctx, location)
	s.ctrl = controller.New(seed, remote, s.bar, controller.Options{BasePath: basePath, Logger: log})

	v := s.ctrl.Snapshot().View(basePath)
	var lerr *listing.LoadError
	if errors.As(err, &lerr) {
		log.Warn("seed load failed", "err", err)
		v = v.WithLoadError(lerr)
	}
	Render(out, v)
	return s
}

// Controller exposes the mounted controller.
func (s *Session) Controller() *controller.Controller { return s.ctrl }

// AddressBar exposes the session history.
func (s *Session) AddressBar() *AddressBar { return s.bar }

// Run reads commands from in until quit or EOF.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	defer s.ctrl.Close()

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.Exec(sc.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Exec runs one command line and renders the resulting state.
func (s *Session) Exec(line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help", "?":
		fmt.Fprint(s.out, helpText)
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	case "url":
		fmt.Fprintln(s.out, s.bar.Location())
		return nil
	case "dept", "department":
		if arg == "" {
			return errors.New("usage: dept <tag>")
		}
		return s.settle(s.ctrl.ToggleDepartment(arg))
	case "company":
		if arg == "" {
			return errors.New("usage: company <slug>")
		}
		return s.settle(s.ctrl.ToggleCompany(arg))
	case "search":
		return s.settle(s.ctrl.SetSearch(arg))
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("usage: page <n>")
		}
		return s.settle(s.ctrl.SetPage(n))
	case "next":
		return s.settle(s.ctrl.SetPage(s.ctrl.Snapshot().Filter.Page + 1))
	case "prev":
		return s.settle(s.ctrl.SetPage(s.ctrl.Snapshot().Filter.Page - 1))
	case "open":
		if arg == "" {
			return errors.New("usage: open <location>")
		}
		s.bar.Push(arg)
		return s.settle(s.ctrl.PopState())
	case "back":
		if !s.bar.Back() {
			return errors.New("no previous location")
		}
		return s.settle(s.ctrl.PopState())
	case "forward":
		if !s.bar.Forward() {
			return errors.New("no next location")
		}
		return s.settle(s.ctrl.PopState())
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

// settle renders the loading state, waits for the query and renders again.
func (s *Session) settle(committed bool) error {
	if !committed {
		Render(s.out, s.ctrl.Snapshot().View(s.basePath))
		return nil
	}
	fmt.Fprintf(s.out, "loading %s ...\n", s.bar.Location())
	s.ctrl.Wait()
	Render(s.out, s.ctrl.Snapshot().View(s.basePath))
	return nil
}
