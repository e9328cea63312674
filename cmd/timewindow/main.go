// timewindow evaluates a time window expression at an instant and lists
// the next instants at which the answer changes.
//
//	timewindow --at "2024-02-24 14:30:00" --transitions 3 "0 0 9-17 * * 1-5 *"
//
// The expression may also be given unquoted, as seven arguments.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/liuqi0527/timewindow"
)

// atLayout is the wall-clock layout accepted by --at besides RFC 3339
const atLayout = "2006-01-02 15:04:05"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// report is the result of a single invocation
type report struct {
	Expression  string       `json:"expression" yaml:"expression"`
	At          time.Time    `json:"at" yaml:"at"`
	Valid       bool         `json:"valid" yaml:"valid"`
	Transitions []transition `json:"transitions" yaml:"transitions"`
	Rows        []string     `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// transition is an instant at which membership changes
type transition struct {
	At time.Time `json:"at" yaml:"at"`

	// Valid is the membership from At on
	Valid bool `json:"valid" yaml:"valid"`

	// In is the time from the previous instant of the report
	In string `json:"in" yaml:"in"`
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		atFlag      string
		transitions int
		describe    bool
		output      string
		logLevel    string
	)

	flagSet := pflag.NewFlagSet("timewindow", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&atFlag, "at", "", "instant to evaluate, '"+atLayout+"' in local time or RFC 3339 (default: now)")
	flagSet.IntVar(&transitions, "transitions", 1, "number of successive changes to list")
	flagSet.BoolVar(&describe, "describe", false, "include the window of every alternative")
	flagSet.StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet, stderr)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet, stderr)
		return nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flagSet.NArg() == 0 {
		return errors.New("missing expression")
	}
	if transitions < 0 {
		return fmt.Errorf("invalid --transitions %d: must not be negative", transitions)
	}
	switch output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid --output %q: expected text, json or yaml", output)
	}

	at, err := parseAt(atFlag)
	if err != nil {
		return err
	}

	e, err := timewindow.Parse(strings.Join(flagSet.Args(), " "))
	if err != nil {
		return err
	}
	logger.Debug("parsed expression", "expression", e, "at", at)

	r := evaluate(e, at, transitions)
	if describe {
		r.Rows = strings.Split(strings.TrimSuffix(e.DescribeAt(at), "\n"), "\n")
	}

	switch output {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return writeText(stdout, r)
}

// evaluate checks at and follows up to n changes of membership from it
func evaluate(e *timewindow.Expression, at time.Time, n int) report {
	r := report{
		Expression:  e.String(),
		At:          at,
		Valid:       e.Check(at),
		Transitions: []transition{},
	}

	cursor := at
	for i := 0; i < n; i++ {
		next, ok := e.NextInstant(cursor)
		if !ok {
			slog.Debug("membership never changes", "expression", e, "after", cursor)
			break
		}
		r.Transitions = append(
			r.Transitions, transition{
				At:    next,
				Valid: e.Check(next),
				In:    next.Sub(cursor).String(),
			},
		)
		cursor = next
	}
	return r
}

func writeText(w io.Writer, r report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Expression)
	fmt.Fprintf(&b, "  %s  %s\n", r.At.Format(atLayout), state(r.Valid))
	for _, tr := range r.Transitions {
		verb := "closes"
		if tr.Valid {
			verb = "opens"
		}
		fmt.Fprintf(&b, "  %s  %s after %s\n", tr.At.Format(atLayout), verb, tr.In)
	}
	if len(r.Transitions) == 0 {
		b.WriteString("  no change ahead\n")
	}
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "  %s\n", row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func state(valid bool) string {
	if valid {
		return "inside"
	}
	return "outside"
}

// parseAt parses the --at flag, defaulting to the current time
func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.ParseInLocation(atLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: expected %q or RFC 3339", s, atLayout)
	}
	return t, nil
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `timewindow: evaluate a time window expression.

Reports whether an instant falls inside the expression's windows and
when that changes next.

Usage:
  timewindow [flags] EXPRESSION

Examples:
  # Business hours, right now
  timewindow "* * 9-17 * * 1-5 *"

  # The next three changes from a given instant, as JSON
  timewindow --at "2024-02-24 14:30:00" --transitions 3 -o json "* * 9-17 * * 1-5 *"

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
