// =============================================================================
// Floor Plan Filler - Review Session
// =============================================================================
//
// A line oriented editor over the extracted record list:
//
//   list                          show the table
//   set <n> <field> <value>       change one field of record n
//   check                         show what the merge will drop or replace
//   help                          show the commands
//   done                          accept the records
//   quit                          stop without writing anything
//
// A rejected value prints a warning and keeps the previous value. End of
// input without "done" counts as quit.
//
// =============================================================================

package review

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/ginjaninja78/floorplan-filler/internal/validation"
)

// ErrAborted is returned by Run when the user quits.
var ErrAborted = errors.New("review aborted")

const helpText = `Commands:
  list                      show the records
  set <n> <field> <value>   change a field (hour, count or amount)
  check                     list records that will be dropped or replaced
  help                      show this help
  done                      accept the records and continue
  quit                      stop without writing anything
`

// Session edits a record list interactively.
type Session struct {
	// Records is edited in place.
	Records []types.SalesRecord

	// Slots is used by the check command.
	Slots config.HourSlotMap

	// Currency formats the total line.
	Currency string

	// Prompt is printed before each command when set.
	Prompt string

	in  *bufio.Scanner
	out io.Writer
}

// NewSession returns a Session reading commands from in.
func NewSession(in io.Reader, out io.Writer, records []types.SalesRecord, slots config.HourSlotMap, currency string) *Session {
	return &Session{
		Records:  records,
		Slots:    slots,
		Currency: currency,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run shows the table and processes commands until done or quit.
//
// RETURNS:
//   - nil when the user accepts the records.
//   - ErrAborted on quit or end of input.
//   - Any error writing to the output.
func (s *Session) Run() error {
	if err := RenderTable(s.out, s.Records, s.Currency); err != nil {
		return err
	}
	fmt.Fprintln(s.out, `Type "help" for commands, "done" to continue.`)

	for {
		if s.Prompt != "" {
			fmt.Fprint(s.out, s.Prompt)
		}
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			return ErrAborted
		}

		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "list", "ls":
			if err := RenderTable(s.out, s.Records, s.Currency); err != nil {
				return err
			}
		case "set":
			s.set(fields[1:])
		case "check":
			s.check()
		case "help", "?":
			fmt.Fprint(s.out, helpText)
		case "done":
			return nil
		case "quit", "exit":
			return ErrAborted
		default:
			fmt.Fprintf(s.out, "unknown command %q, type \"help\"\n", fields[0])
		}
	}
}

func (s *Session) set(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "usage: set <n> <hour|count|amount> <value>")
		return
	}

	row, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "warning: %q is not a record number\n", args[0])
		return
	}

	value := strings.Join(args[2:], " ")
	if err := validation.ApplyEdit(s.Records, row, args[1], value); err != nil {
		fmt.Fprintf(s.out, "warning: %v\n", err)
		return
	}

	r := s.Records[row-1]
	fmt.Fprintf(s.out, "%d: %s  %d  %s\n", row, r.Hour, r.Count, FormatAmount(r.Amount))
}

func (s *Session) check() {
	result := validation.ValidateRecords(s.Records, s.Slots)
	fmt.Fprintln(s.out, strings.TrimRight(validation.FormatErrors(result.Errors), "\n"))
}
