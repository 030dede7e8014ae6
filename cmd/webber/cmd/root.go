package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/andyle182810/webber/config"
	"github.com/andyle182810/webber/httpclient"
	"github.com/andyle182810/webber/logutil"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// targetClient names the registered client that talks to the URL given on the
// command line.
const targetClient = "target"

// app holds the state shared by the request commands of one root command.
// Configuration is loaded lazily so that version and help work with a broken
// environment.
type app struct {
	appName   string
	logLevel  string
	timeout   time.Duration
	requestID bool
	noColor   bool

	cfg     *config.Config
	logger  zerolog.Logger
	clients *httpclient.Registry
	palette palette
}

func NewRootCmd(version, buildTime string) *cobra.Command {
	a := &app{} //nolint:exhaustruct

	rootCmd := &cobra.Command{
		Use:   "webber",
		Short: "Send one HTTP request and print the response.",
		Long: `webber sends a single synchronous HTTP request and prints what came back.
Any response, including 4xx and 5xx, counts as a success; only a request
that never got a response is reported as a failure.

Defaults are read from WEBBER_* environment variables and from a .env file
in the working directory.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.appName, "app-name", "", "User-Agent sent with every request (env WEBBER_APP_NAME)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (env WEBBER_LOG_LEVEL)")
	flags.DurationVar(&a.timeout, "timeout", 0, "request timeout, 0 disables it (env WEBBER_TIMEOUT)")
	flags.BoolVar(&a.requestID, "request-id", false, "stamp an X-Request-ID header on the request (env WEBBER_REQUEST_ID)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	for _, method := range []string{
		httpclient.MethodGet,
		httpclient.MethodPost,
		httpclient.MethodPut,
		httpclient.MethodPatch,
	} {
		rootCmd.AddCommand(newRequestCmd(a, method))
	}

	rootCmd.AddCommand(newMockCmd(a))
	rootCmd.AddCommand(newVersionCmd(version, buildTime))

	return rootCmd
}

func Execute(version, buildTime string) int {
	rootCmd := NewRootCmd(version, buildTime)

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && err.Error() != "" {
		fmt.Fprintln(rootCmd.ErrOrStderr(), color.New(color.FgRed).Sprint("Error: "+err.Error()))
	}

	return ExitCode(err)
}

// setup loads the environment configuration, applies the flags that were set
// explicitly and builds the logger and the HTTP client.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.New()
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	flags := cmd.Flags()

	if flags.Changed("app-name") {
		cfg.AppName = a.appName
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}

	if flags.Changed("request-id") {
		cfg.RequestID = a.requestID
	}

	if err := cfg.Validate(); err != nil {
		return withExitCode(ExitUsageError, fmt.Errorf("invalid flags: %w", err))
	}

	a.cfg = cfg
	a.logger = logutil.New(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())
	a.palette = newPalette(a.noColor)
	a.clients = httpclient.NewRegistry(httpclient.WithLogger(a.logger)).
		OnError(a.reportFailure(cmd)).
		RegisterFromConfig(targetClient, cfg)

	return nil
}

func (a *app) reportFailure(cmd *cobra.Command) httpclient.ErrorHandler {
	return func(resp *httpclient.Response) {
		a.palette.red.Fprintf(cmd.ErrOrStderr(), "no response: %s\n", resp.RawBody)
	}
}
