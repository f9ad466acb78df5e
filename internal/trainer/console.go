package trainer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gymtrainer/internal/gymstats/catalog"
	"github.com/2beens/gymtrainer/internal/gymstats/events"
	"github.com/2beens/gymtrainer/internal/gymstats/progress"
	"github.com/2beens/gymtrainer/internal/gymstats/schedule"
	"github.com/2beens/gymtrainer/internal/gymstats/session"
	"github.com/2beens/gymtrainer/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const helpText = `commands:
  list            show the exercises of the day
  open <n|id>     open an exercise by position or id
  continue        open the first exercise which is not completed
  done            complete the current set
  skip            skip the running rest
  status          show the running session
  close           close the running session
  restart         forget today's progress
  summary         show today's progress
  help            show this help
  quit            leave
`

var errQuit = errors.New("quit")

type ConsoleParams struct {
	Day          catalog.TrainingDay
	Aggregator   *progress.Aggregator
	Journal      *events.Journal
	Scheduler    session.Scheduler
	TickInterval time.Duration
	Metrics      *metrics.Manager
	Out          io.Writer
}

// Console drives one training day from line commands.
type Console struct {
	selector *schedule.Selector
	journal  *events.Journal
	analyzer *events.Analyzer

	outMu sync.Mutex
	out   io.Writer
}

func NewConsole(params ConsoleParams) *Console {
	if params.Journal == nil {
		params.Journal = events.NewJournal(events.JournalParams{})
	}
	c := &Console{
		journal:  params.Journal,
		analyzer: events.NewAnalyzer(params.Journal),
		out:      params.Out,
	}
	c.selector = schedule.NewSelector(schedule.SelectorParams{
		Day:          params.Day,
		Aggregator:   params.Aggregator,
		Journal:      params.Journal,
		Scheduler:    params.Scheduler,
		TickInterval: params.TickInterval,
		Metrics:      params.Metrics,
		Observer:     c.onChange,
	})
	return c
}

func (c *Console) Selector() *schedule.Selector {
	return c.selector
}

func (c *Console) Journal() *events.Journal {
	return c.journal
}

// Run executes commands read from in until quit, end of input or ctx cancellation.
// The running session is closed on the way out.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		if err := c.selector.CloseActive(); err == nil {
			log.Debugln("console: closed running session on exit")
		}
	}()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.printf("training day [%s] %s, type 'help' for commands\n", c.selector.Day().ID, c.selector.Day().Name)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read commands: %w", err)
					}
				default:
				}
				return nil
			}
			if err := c.Execute(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				c.printf("error: %s\n", err)
			}
		}
	}
}

// Execute runs a single command line.
func (c *Console) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	log.Tracef("console: command [%s] %v", cmd, args)
	switch cmd {
	case "list", "ls":
		c.printOverview()
	case "open":
		if len(args) != 1 {
			return errors.New("usage: open <n|id>")
		}
		return c.open(args[0])
	case "continue", "next":
		engine, err := c.selector.Continue()
		if err != nil {
			return err
		}
		c.printSnapshot(engine.Snapshot())
	case "done", "d":
		return c.done()
	case "skip":
		engine, err := c.selector.Active()
		if err != nil {
			return err
		}
		if !engine.SkipRest() {
			return errors.New("not resting")
		}
		c.printSnapshot(engine.Snapshot())
	case "status", "st":
		engine, err := c.selector.Active()
		if err != nil {
			return err
		}
		c.printSnapshot(engine.Snapshot())
	case "close":
		if err := c.selector.CloseActive(); err != nil {
			return err
		}
		c.printf("session closed\n")
	case "restart":
		c.selector.RestartDay()
		c.printf("day restarted\n")
	case "summary":
		c.printSummary()
	case "help", "h", "?":
		c.printf("%s", helpText)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command [%s], try 'help'", cmd)
	}
	return nil
}

func (c *Console) open(arg string) error {
	exerciseID := arg
	if position, err := strconv.Atoi(arg); err == nil {
		exercises := c.selector.Exercises()
		if position < 1 || position > len(exercises) {
			return fmt.Errorf("no exercise at position %d", position)
		}
		exerciseID = exercises[position-1].ID
	}

	engine, err := c.selector.Open(exerciseID)
	if err != nil {
		return err
	}
	c.printSnapshot(engine.Snapshot())
	return nil
}

func (c *Console) done() error {
	engine, err := c.selector.Active()
	if err != nil {
		return err
	}

	snapshot := engine.Snapshot()
	switch {
	case snapshot.Closed:
		return errors.New("session is closed")
	case snapshot.Phase == session.PhaseResting:
		return fmt.Errorf("still resting, %ds left ('skip' to cut it short)", snapshot.RestRemaining)
	case snapshot.Phase == session.PhaseCompleted:
		return errors.New("exercise already completed")
	}

	if !engine.CompleteSet(snapshot.Version) {
		return errors.New("session changed, try again")
	}
	c.printSnapshot(engine.Snapshot())
	return nil
}

func (c *Console) onChange(change session.Change) {
	if change.Action != session.ActionTick {
		return
	}
	switch {
	case change.To == session.PhaseActive:
		c.printf("rest over, next: %s\n", describeCursor(change.Snapshot.Cursor))
	case change.Snapshot.RestRemaining > 0 && change.Snapshot.RestRemaining%15 == 0:
		c.printf("resting, %ds left\n", change.Snapshot.RestRemaining)
	}
}

func (c *Console) printf(format string, args ...any) {
	if c.out == nil {
		return
	}
	c.outMu.Lock()
	defer c.outMu.Unlock()
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		log.Errorf("console: write output: %s", err)
	}
}
