package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/andyle182810/webber/authtoken"
	"github.com/andyle182810/webber/httpclient"
	"github.com/andyle182810/webber/textenc"
	"github.com/andyle182810/webber/validator"
	"github.com/spf13/cobra"
)

var (
	errNoMatch         = errors.New("query matched nothing")
	errInvalidHeader   = errors.New("header must have the form 'Name: value'")
	errInvalidUser     = errors.New("--user must have the form user:password")
	errConflictingAuth = errors.New("only one of --user, --token, --api-key or --token-url may be set")
	errIncompleteOAuth = errors.New("--token-url requires --client-id and --client-secret")
)

type requestFlags struct {
	data        string
	contentType string
	encoding    string
	headers     []string
	include     bool
	query       string

	user         string
	token        string
	apiKey       string
	apiKeyHeader string
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
}

type requestInput struct {
	URL         string `json:"url"          validate:"required,http_url"`
	ContentType string `json:"content-type" validate:"required"`
}

func newRequestCmd(a *app, method string) *cobra.Command {
	rf := &requestFlags{} //nolint:exhaustruct
	name := strings.ToLower(method)

	requestCmd := &cobra.Command{
		Use:   name + " URL",
		Short: "Send a " + method + " request",
		Example: fmt.Sprintf("  webber %s https://jsonplaceholder.typicode.com/posts/1 --query title\n"+
			"  webber %s https://api.example.com/items -H 'Accept-Language: de' --token $TOKEN", name, name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRequest(cmd, method, args[0], rf)
		},
	}

	flags := requestCmd.Flags()

	if method != httpclient.MethodGet {
		flags.StringVarP(&rf.data, "data", "d", "", "request body")
	}

	flags.StringVar(&rf.contentType, "content-type", httpclient.ContentTypeJSON, "Content-Type of the request")
	flags.StringVar(&rf.encoding, "encoding", "utf-8", "body encoding: utf-8, unicode, ascii, utf-7, utf-32")
	flags.StringArrayVarP(&rf.headers, "header", "H", nil, "extra header 'Name: value', repeatable")
	flags.BoolVarP(&rf.include, "include", "i", false, "print the response headers")
	flags.StringVarP(&rf.query, "query", "q", "", "print only the value at this gjson path of a JSON body")

	flags.StringVarP(&rf.user, "user", "u", "", "basic auth credentials user:password")
	flags.StringVar(&rf.token, "token", "", "bearer token")
	flags.StringVar(&rf.apiKey, "api-key", "", "API key")
	flags.StringVar(&rf.apiKeyHeader, "api-key-header", httpclient.HeaderAPIKey, "header carrying --api-key")
	flags.StringVar(&rf.tokenURL, "token-url", "", "OAuth2 token endpoint for the client credentials grant")
	flags.StringVar(&rf.clientID, "client-id", "", "OAuth2 client id")
	flags.StringVar(&rf.clientSecret, "client-secret", "", "OAuth2 client secret")
	flags.StringVar(&rf.scope, "scope", "", "OAuth2 scope")

	return requestCmd
}

func (a *app) runRequest(cmd *cobra.Command, method, target string, rf *requestFlags) error {
	req, err := a.buildRequest(method, target, rf)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if err := a.setup(cmd); err != nil {
		return err
	}

	credentials, err := rf.credentials(a)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	req.Credentials = credentials

	resp := a.clients.Client(targetClient).Invoke(cmd.Context(), req)
	if !resp.Success {
		return withExitCode(ExitNetworkError, nil)
	}

	a.palette.printStatus(cmd.ErrOrStderr(), resp, rf.include)

	if rf.query == "" {
		printBody(cmd.OutOrStdout(), resp.RawBody)

		return nil
	}

	value, err := extract(resp.RawBody, rf.query)
	if err != nil {
		return err
	}

	printBody(cmd.OutOrStdout(), value)

	return nil
}

func (a *app) buildRequest(method, target string, rf *requestFlags) (httpclient.Request, error) {
	input := requestInput{URL: target, ContentType: rf.contentType}
	if err := validator.New().Validate(input); err != nil {
		return httpclient.Request{}, err //nolint:exhaustruct
	}

	encoding, err := textenc.Parse(rf.encoding)
	if err != nil {
		return httpclient.Request{}, err //nolint:exhaustruct
	}

	headers, err := parseHeaders(rf.headers)
	if err != nil {
		return httpclient.Request{}, err //nolint:exhaustruct
	}

	return httpclient.Request{
		URL:         target,
		Body:        rf.data,
		ContentType: rf.contentType,
		Method:      method,
		Encoding:    encoding,
		Credentials: nil,
		Headers:     headers,
	}, nil
}

func (rf *requestFlags) credentials(a *app) (*httpclient.Credentials, error) {
	set := 0

	for _, value := range []string{rf.user, rf.token, rf.apiKey, rf.tokenURL} {
		if value != "" {
			set++
		}
	}

	if set > 1 {
		return nil, errConflictingAuth
	}

	switch {
	case rf.user != "":
		username, password, ok := strings.Cut(rf.user, ":")
		if !ok || username == "" {
			return nil, errInvalidUser
		}

		return httpclient.BasicAuth(username, password), nil
	case rf.token != "":
		return httpclient.BearerToken(rf.token), nil
	case rf.apiKey != "":
		return httpclient.APIKey(rf.apiKeyHeader, rf.apiKey), nil
	case rf.tokenURL != "":
		if rf.clientID == "" || rf.clientSecret == "" {
			return nil, errIncompleteOAuth
		}

		provider := authtoken.New(rf.tokenURL, rf.clientID, rf.clientSecret,
			authtoken.WithTimeout(a.cfg.Timeout),
			authtoken.WithScope(rf.scope),
			authtoken.WithLogger(a.logger),
		)

		return httpclient.TokenAuth(provider), nil
	default:
		return nil, nil //nolint:nilnil
	}
}

func parseHeaders(raw []string) (http.Header, error) {
	headers := make(http.Header, len(raw))

	for _, line := range raw {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidHeader, line)
		}

		headers.Add(name, strings.TrimSpace(value))
	}

	return headers, nil
}
