package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/animesift/animesift/internal/filter"
	"github.com/animesift/animesift/internal/usecase"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review the catalog interactively",
		Long: `Review the catalog one page at a time. Type "help" for the list of commands.
Decisions are saved to the profile as they are made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			review, closeReview, err := openReview(context.Background(), cmd)
			if err != nil {
				return err
			}
			defer closeReview()

			r := &repl{review: review, out: cmd.OutOrStdout()}
			return r.run(cmd.InOrStdin())
		},
	}

	return cmd
}

var errQuit = errors.New("quit")

// repl drives one review session from text commands.
type repl struct {
	review *usecase.Review
	out    io.Writer
}

const replHelp = `Commands:
  show                 print the current page
  list                 print the filtered listing
  sel <id>             toggle selection
  left <pos>           skip the item at a position
  right <pos>          mark the item at a position watched
  like <id>            mark an item interested
  unmark <id>...       remove the latest decision of items
  confirm              selected -> watched, rest -> skipped, next page
  skip                 every item -> skipped, next page
  undo                 undo the latest action
  next | prev          change page
  search <text>        set the search text ($tag$ matches tags)
  enter                add a $tag$ search as a tag filter
  tag+ <tag>           add a tag filter
  tag- <tag>           remove a tag filter
  rating <n>           minimum score (0 disables)
  years <from> <to>    year range, "-" for an open bound
  status <s>           all, watched, unwatched, interested, skipped
  layout <m>           small, medium, large
  clear                reset search, tags and panel filters
  stats                show progress
  reset                erase every decision of this profile
  quit                 leave`

func (r *repl) run(in io.Reader) error {
	renderGrid(r.out, r.review.Session)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := r.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
	fmt.Fprintln(r.out)
	return scanner.Err()
}

// exec runs one command line. Commands that change the page print it again.
func (r *repl) exec(line string) error {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	sess := r.review.Session

	switch name {
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "show":
	case "list":
		renderItems(r.out, sess.Ordered())
		return nil
	case "sel":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if _, err := sess.Select(id); err != nil {
			return err
		}
	case "left", "right":
		pos, err := parsePosition(args)
		if err != nil {
			return err
		}
		positions := sess.Positions()
		if pos < 0 || pos >= len(positions) {
			return fmt.Errorf("position %d out of range (0-%d)", pos, len(positions)-1)
		}
		swipe := sess.SwipeLeft
		if name == "right" {
			swipe = sess.SwipeRight
		}
		if _, err := swipe(positions[pos], pos); err != nil {
			return err
		}
	case "like":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if err := sess.MarkInterested(id); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Marked %d as interested\n", id)
		return nil
	case "unmark":
		if len(args) == 0 {
			return fmt.Errorf("usage: unmark <id>...")
		}
		ids := make([]int64, 0, len(args))
		for _, a := range args {
			id, err := strconv.ParseInt(a, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", a)
			}
			ids = append(ids, id)
		}
		fmt.Fprintf(r.out, "Removed %d decision(s)\n", sess.RemoveFromLedger(ids))
	case "confirm":
		if err := sess.ConfirmSelection(); err != nil {
			return err
		}
	case "skip":
		if err := sess.SkipPage(); err != nil {
			return err
		}
	case "undo":
		out := sess.Undo()
		fmt.Fprintf(r.out, "undo: %s\n", out.Action)
	case "next":
		sess.Advance()
	case "prev":
		sess.Retreat()
	case "search":
		sess.SetSearch(rest)
	case "enter":
		tag, ok := sess.SubmitSearch()
		if !ok {
			return fmt.Errorf("search text is not a $tag$ literal")
		}
		fmt.Fprintf(r.out, "Added tag %s\n", tag)
	case "tag+":
		if !sess.AddTag(rest) {
			return fmt.Errorf("tag %q not added", rest)
		}
	case "tag-":
		if !sess.RemoveTag(rest) {
			return fmt.Errorf("tag %q is not selected", rest)
		}
	case "rating":
		if len(args) != 1 {
			return fmt.Errorf("usage: rating <n>")
		}
		rating, err := strconv.ParseFloat(args[0], 64)
		if err != nil || rating < 0 {
			return fmt.Errorf("invalid rating: %s", args[0])
		}
		sess.UpdateFilter(filter.Update{MinRating: &rating})
	case "years":
		update, err := parseYears(args)
		if err != nil {
			return err
		}
		sess.UpdateFilter(update)
	case "status":
		if len(args) != 1 {
			return fmt.Errorf("usage: status <all|watched|unwatched|interested|skipped>")
		}
		ws, err := filter.ParseWatchStatus(args[0])
		if err != nil {
			return err
		}
		sess.UpdateFilter(filter.Update{WatchStatus: &ws})
		if _, ok := ws.Ledger(); ok {
			renderItems(r.out, sess.Ordered())
			return nil
		}
	case "layout":
		if len(args) != 1 {
			return fmt.Errorf("usage: layout <small|medium|large>")
		}
		layout, err := filter.ParseLayout(args[0])
		if err != nil {
			return err
		}
		sess.UpdateFilter(filter.Update{Layout: &layout})
	case "clear":
		sess.ClearFilters()
	case "stats":
		stats, err := r.review.Stats(context.Background())
		if err != nil {
			return err
		}
		renderStats(r.out, stats)
		return nil
	case "reset":
		r.review.Reset()
		fmt.Fprintln(r.out, "All decisions erased")
	default:
		return fmt.Errorf("unknown command: %s (type help)", name)
	}

	renderGrid(r.out, sess)
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", args[0])
	}
	return id, nil
}

func parsePosition(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one position")
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid position: %s", args[0])
	}
	return pos, nil
}

// parseYears reads "<from> <to>" where "-" leaves a bound open. With no
// arguments both bounds are cleared.
func parseYears(args []string) (filter.Update, error) {
	if len(args) == 0 {
		return filter.Update{ClearYear: true}, nil
	}
	if len(args) != 2 {
		return filter.Update{}, fmt.Errorf("usage: years <from|-> <to|->")
	}

	start, err := parseYear(args[0])
	if err != nil {
		return filter.Update{}, err
	}
	end, err := parseYear(args[1])
	if err != nil {
		return filter.Update{}, err
	}
	return filter.Update{ClearYear: true, YearStart: start, YearEnd: end}, nil
}

func parseYear(value string) (*int, error) {
	if value == "-" {
		return nil, nil
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid year: %s", value)
	}
	return &year, nil
}
