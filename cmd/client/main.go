// Package main runs the dish ranking terminal client. It works on the same
// storage as the server, so votes cast here show up in the browser views.
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/atinyakov/dishrank/internal/app"
	"github.com/atinyakov/dishrank/internal/config"
	"github.com/atinyakov/dishrank/internal/logger"
	"github.com/atinyakov/dishrank/internal/models"
	"github.com/atinyakov/dishrank/internal/service"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

const helpText = `Available commands:
  login <username> <password>   sign in
  logout                        sign out
  whoami                        show the signed-in user
  dishes                        list the catalog
  vote <dishID> <1|2|3>         give a dish your rank 1, 2 or 3
  clear <dishID>                withdraw your vote on a dish
  rankings                      show the leaderboard
  image <dishID> <url>          use a custom image for a dish
  unimage <dishID>              restore the default image
  exit                          quit`

var (
	medals = map[int]*color.Color{
		0: color.New(color.FgYellow, color.Bold),
		1: color.New(color.FgWhite, color.Bold),
		2: color.New(color.FgRed),
	}
	errColor  = color.New(color.FgRed)
	okColor   = color.New(color.FgGreen)
	mineColor = color.New(color.FgCyan)
)

// shell runs the interactive loop against a.
type shell struct {
	app *app.App
	out io.Writer
	log *zap.Logger
}

// run reads commands from in until EOF, exit, or ctx is cancelled.
func (s *shell) run(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil {
		fmt.Fprint(s.out, s.prompt())
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		s.exec(ctx, args)
	}
}

func (s *shell) prompt() string {
	if user, ok := s.app.Auth.CurrentUser(); ok {
		return user + "@dishrank> "
	}
	return "dishrank> "
}

func (s *shell) exec(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "login":
		if len(args) < 3 {
			fmt.Fprintln(s.out, "Usage: login <username> <password>")
			return
		}
		ok, err := s.app.Auth.Login(ctx, args[1], args[2])
		switch {
		case err != nil:
			s.fail("login failed", err)
		case !ok:
			errColor.Fprintln(s.out, "Invalid username or password")
		default:
			okColor.Fprintf(s.out, "Signed in as %s\n", args[1])
		}
	case "logout":
		if err := s.app.Auth.Logout(ctx); err != nil {
			s.fail("logout failed", err)
			return
		}
		fmt.Fprintln(s.out, "Signed out")
	case "whoami":
		if user, ok := s.app.Auth.CurrentUser(); ok {
			fmt.Fprintln(s.out, user)
		} else {
			fmt.Fprintln(s.out, "Not signed in")
		}
	case "dishes":
		if !s.requireLogin() {
			return
		}
		for _, d := range s.app.Catalog.Dishes() {
			fmt.Fprintf(s.out, "%3d  %s\n", d.ID, d.DishName)
		}
	case "vote":
		if len(args) < 3 {
			fmt.Fprintln(s.out, "Usage: vote <dishID> <1|2|3>")
			return
		}
		id, ok := s.dishArg(args[1])
		if !ok || !s.requireLogin() {
			return
		}
		rank, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintln(s.out, "Rank must be 1, 2 or 3")
			return
		}
		if err := s.app.Ledger.VoteForDish(ctx, id, models.Rank(rank)); err != nil {
			if errors.Is(err, service.ErrInvalidRank) {
				fmt.Fprintln(s.out, "Rank must be 1, 2 or 3")
				return
			}
			s.fail("vote failed", err)
			return
		}
		okColor.Fprintf(s.out, "Ranked dish %d #%d\n", id, rank)
	case "clear":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: clear <dishID>")
			return
		}
		id, ok := s.dishArg(args[1])
		if !ok || !s.requireLogin() {
			return
		}
		if err := s.app.Ledger.ClearVote(ctx, id); err != nil {
			s.fail("clear failed", err)
			return
		}
		fmt.Fprintf(s.out, "Cleared your vote on dish %d\n", id)
	case "rankings":
		if !s.requireLogin() {
			return
		}
		s.printRankings()
	case "image":
		if len(args) < 3 {
			fmt.Fprintln(s.out, "Usage: image <dishID> <url>")
			return
		}
		id, ok := s.dishArg(args[1])
		if !ok {
			return
		}
		if err := s.app.Catalog.SetCustomImage(ctx, id, args[2]); err != nil {
			s.fail("set image failed", err)
			return
		}
		fmt.Fprintln(s.out, "Image updated")
	case "unimage":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: unimage <dishID>")
			return
		}
		id, ok := s.dishArg(args[1])
		if !ok {
			return
		}
		if err := s.app.Catalog.RemoveCustomImage(ctx, id); err != nil {
			s.fail("remove image failed", err)
			return
		}
		fmt.Fprintln(s.out, "Image restored")
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func (s *shell) printRankings() {
	for i, rd := range s.app.Rankings.GetRankings() {
		line := fmt.Sprintf("%2d. %-24s %4d pts", i+1, rd.DishName, rd.Points)
		if c, ok := medals[i]; ok && rd.Points > 0 {
			c.Fprint(s.out, line)
		} else {
			fmt.Fprint(s.out, line)
		}
		if rd.UserRank != nil {
			mineColor.Fprintf(s.out, "  (your #%d)", *rd.UserRank)
		}
		fmt.Fprintln(s.out)
	}
}

func (s *shell) requireLogin() bool {
	if _, ok := s.app.Auth.CurrentUser(); !ok {
		fmt.Fprintln(s.out, "Please log in first")
		return false
	}
	return true
}

func (s *shell) dishArg(arg string) (int, bool) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintln(s.out, "Dish id must be a number")
		return 0, false
	}
	if _, ok := s.app.Catalog.Dish(id); !ok {
		fmt.Fprintf(s.out, "Dish %d not found\n", id)
		return 0, false
	}
	return id, true
}

func (s *shell) fail(msg string, err error) {
	s.log.Error(msg, zap.Error(err))
	errColor.Fprintf(s.out, "%s: %v\n", msg, err)
}

func main() {
	options := config.Parse()

	fmt.Printf("Dishrank client %s (%s)\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, options, log.Log)
	if err != nil {
		log.Log.Fatal("cannot start app", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Log.Error("close storage", zap.Error(err))
		}
	}()

	sh := &shell{app: a, out: os.Stdout, log: log.Log}
	sh.run(ctx, os.Stdin)
}
