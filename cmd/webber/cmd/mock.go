package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andyle182810/webber/httpserver"
	"github.com/andyle182810/webber/mockapi"
	"github.com/andyle182810/webber/runner"
	"github.com/spf13/cobra"
)

const defaultMockPort = 3000

type mockFlags struct {
	host  string
	port  int
	delay time.Duration
}

func newMockCmd(a *app) *cobra.Command {
	mf := &mockFlags{} //nolint:exhaustruct

	mockCmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve a local JSON API to try requests against",
		Long: `Start an HTTP server that mimics the posts resource of
jsonplaceholder.typicode.com, plus diagnostic endpoints:

  GET   /posts          list posts, paged with _page and _limit
  POST  /posts          create a post (201, id > 100)
  GET   /posts/:id      read a post
  PUT   /posts/:id      replace a post
  PATCH /posts/:id      update a post
  ANY   /headers        echo the request headers as JSON
  ANY   /echo           echo the request body
  ANY   /invalid-json   answer with a broken JSON body
  ANY   /text           answer with text/plain
  ANY   /status/:code   answer with the given status

The server runs until interrupted.`,
		Example: "  webber mock --port 3000\n  webber mock --delay 250ms",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMock(cmd, mf)
		},
	}

	mockCmd.Flags().StringVar(&mf.host, "host", "127.0.0.1", "interface to listen on")
	mockCmd.Flags().IntVarP(&mf.port, "port", "p", defaultMockPort, "port to listen on, 0 picks a free one")
	mockCmd.Flags().DurationVar(&mf.delay, "delay", 0, "delay added to every response, e.g. 100ms")

	return mockCmd
}

func (a *app) runMock(cmd *cobra.Command, mf *mockFlags) error {
	if mf.delay < 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("invalid delay %s", mf.delay)) //nolint:err113
	}

	if err := a.setup(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := httpserver.New(&httpserver.Config{ //nolint:exhaustruct
		Host: mf.host,
		Port: mf.port,
	}, mockapi.New(a.logger, mockapi.WithDelay(mf.delay)), a.logger)

	r := runner.New(
		runner.WithLogger(a.logger),
		runner.WithService(server),
		runner.WithService(&announcer{out: cmd.OutOrStdout(), server: server}),
	)

	if err := r.Run(ctx); err != nil {
		return withExitCode(ExitNetworkError, err)
	}

	return nil
}

// announcer prints the listening address once the server before it has
// started.
type announcer struct {
	out    io.Writer
	server *httpserver.Server
}

func (a *announcer) Start(context.Context) error {
	_, err := fmt.Fprintf(a.out, "Mock API listening on http://%s\n", a.server.Addr())

	return err
}

func (a *announcer) Stop() error {
	return nil
}

func (a *announcer) Name() string {
	return "announcer"
}
