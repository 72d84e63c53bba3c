package rootcmd_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/courtflow/progression/application"
	"github.com/courtflow/progression/cli/internal/clifactory"
	"github.com/courtflow/progression/cli/internal/cliout"
	"github.com/courtflow/progression/cli/internal/cmd/rootcmd"
	"github.com/courtflow/progression/cli/internal/cmdtest"
	"github.com/courtflow/progression/register"
	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
)

func envelope(id uuid.UUID) string {
	return fmt.Sprintf(`{
		"name": %q,
		"payload": {
			"courtApplication": {
				"id": %q,
				"type": {"code": "MC80527", "linkType": "LINKED"},
				"courtApplicationCases": [{"prosecutionCaseId": %q}]
			}
		}
	}`, application.InitiateProceedingsCmd, id, uuid.New())
}

func newFactory(stdin string) *clifactory.Factory {
	return clifactory.New(
		clifactory.Context(context.Background()),
		clifactory.Stdin(strings.NewReader(stdin)),
	)
}

func TestRegisterID(t *testing.T) {
	centre := uuid.New()
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	cmd := rootcmd.New(newFactory(""))
	cmdtest.Output(t, cmd, []string{"register-id", centre.String(), "2024-03-04"}, register.StreamID(centre, date).String()+"\n")
}

func TestRegisterID_invalidDate(t *testing.T) {
	cmd := rootcmd.New(newFactory(""))
	cmd.SetArgs([]string{"register-id", uuid.NewString(), "04/03/2024"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("register-id should fail for an invalid date")
	}
}

func TestDispatch(t *testing.T) {
	id := uuid.New()
	f := newFactory(envelope(id))
	defer f.Close()

	want := aurora.Green("Command dispatched. 3 event(s) recorded.").String() + "\n"
	cmdtest.Output(t, rootcmd.New(f), []string{"dispatch", "--quiet"}, want)

	cmdtest.TableOutput(t, rootcmd.New(f), []string{"replay", "application", id.String()}, [][]string{
		cliout.Header,
		{"1", application.AggregateName, id.String(), application.ProceedingsInitiated},
		{"2", application.AggregateName, id.String(), application.ApplicationAddedToCase},
		{"3", application.AggregateName, id.String(), application.ApplicationReferredToBoxwork},
	}, nil)
}

func TestDispatch_unknownCommand(t *testing.T) {
	f := newFactory(`{"name": "foo", "payload": {}}`)
	cmd := rootcmd.New(f)
	cmd.SetArgs([]string{"dispatch"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("dispatch should fail for an unregistered command")
	}
}

func TestDispatch_invalidConfig(t *testing.T) {
	f := newFactory(envelope(uuid.New()))
	cmdtest.Error(t, rootcmd.New(f), []string{"dispatch", "--backend", "sqlite"}, clifactory.ErrInvalidConfig)
}

func TestReplay_empty(t *testing.T) {
	f := newFactory("")
	defer f.Close()
	id := uuid.New()

	want := aurora.Yellow(fmt.Sprintf("Stream %s(%s) has no events.", register.AggregateName, id)).String() + "\n"
	cmdtest.Output(t, rootcmd.New(f), []string{"replay", "register", id.String()}, want)
}
