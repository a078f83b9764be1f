package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nhle/calendar/internal/command"
	"github.com/nhle/calendar/internal/ui/taskform"
)

// Prompt is printed before every line the plain loop reads.
const Prompt = "> "

// RunREPL reads commands from in one line at a time and writes views and
// results to out. It returns nil on quit or end of input. A bare "add" opens
// the add form as a sequence of prompts on the same streams.
func RunREPL(ctx context.Context, in io.Reader, out io.Writer, d *command.Dispatcher, render func() string) error {
	r := bufio.NewReader(in)

	fmt.Fprintln(out, render())
	fmt.Fprintln(out, command.Menu)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, Prompt)

		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("reading command: %w", readErr)
		}
		line = strings.TrimSpace(line)

		if line != "" {
			res, err := runLine(ctx, r, out, d, line)
			switch {
			case err != nil:
				fmt.Fprintf(out, "Error: %v\n", err)
			default:
				if res.Message != "" {
					fmt.Fprintln(out, res.Message)
				}
				if res.Quit {
					return nil
				}
				if res.Rerender {
					fmt.Fprintln(out, render())
				}
			}
		}

		if errors.Is(readErr, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
	}
}

func runLine(ctx context.Context, r *bufio.Reader, out io.Writer, d *command.Dispatcher, line string) (command.Result, error) {
	if !strings.EqualFold(line, "add") {
		return d.Execute(ctx, line)
	}

	req, err := taskform.Run(addDefault(d), r, out)
	if errors.Is(err, taskform.ErrCancelled) {
		return command.Result{Message: "Add cancelled."}, nil
	}
	if err != nil {
		return command.Result{}, err
	}
	return d.AddTask(ctx, req)
}
