// Package cmdtest runs cobra commands in tests and compares their output.
package cmdtest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"text/tabwriter"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
)

func execute(cmd *cobra.Command, args []string) (string, error) {
	cmd.SetArgs(args)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()

	return out.String(), err
}

// Error expects cmd to fail with an error that unwraps to want. Error returns
// the command output but does not validate the output.
func Error(t *testing.T, cmd *cobra.Command, args []string, want error) string {
	t.Helper()

	out, err := execute(cmd, args)
	if !errors.Is(err, want) {
		t.Fatalf("Command should fail with %q; got %q", want, err)
	}

	return out
}

// Output expects cmd to succeed and output fmt.Sprint(want). It returns the
// actual output.
func Output(t *testing.T, cmd *cobra.Command, args []string, want any) string {
	t.Helper()

	out, err := execute(cmd, args)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if wantStr := fmt.Sprint(want); out != wantStr {
		t.Fatalf("Command has wrong output.\n\nwant:\n%v\n\ngot:\n%v\n", wantStr, out)
	}

	return out
}

// TableOutput expects cmd to succeed and output want as a table. If colorize
// is non-nil, it is used to colorize the expected output before comparing to
// the actual output.
func TableOutput(t *testing.T, cmd *cobra.Command, args []string, want [][]string, colorize func(any) aurora.Value) string {
	t.Helper()

	out, err := execute(cmd, args)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	var builder strings.Builder
	tabw := tabwriter.NewWriter(&builder, 0, 2, 1, ' ', 0)
	for _, row := range want {
		fmt.Fprintln(tabw, strings.Join(row, "\t"))
	}
	if err := tabw.Flush(); err != nil {
		t.Fatalf("flush tabwriter: %v", err)
	}

	wantStr := builder.String()
	if colorize != nil {
		wantStr = colorize(wantStr).String()
	}

	if out != wantStr {
		t.Fatalf("Command has wrong output.\n\nwant:\n%v\n\ngot:\n%v\n", wantStr, out)
	}

	return out
}
