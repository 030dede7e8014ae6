package cmd

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/andyle182810/webber/httpclient"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
)

type palette struct {
	green  *color.Color
	cyan   *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		green:  color.New(color.FgGreen),
		cyan:   color.New(color.FgCyan),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
	}

	if noColor {
		for _, c := range []*color.Color{p.green, p.cyan, p.yellow, p.red, p.bold} {
			c.DisableColor()
		}
	}

	return p
}

func (p palette) forStatus(code int) *color.Color {
	switch {
	case code >= http.StatusInternalServerError:
		return p.red
	case code >= http.StatusBadRequest:
		return p.yellow
	case code >= http.StatusMultipleChoices:
		return p.cyan
	default:
		return p.green
	}
}

// printStatus writes the status line, and the response headers when include
// is set, to w.
func (p palette) printStatus(w io.Writer, resp *httpclient.Response, include bool) {
	p.forStatus(resp.StatusCode).Fprintf(w, "HTTP %d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))

	if !include {
		return
	}

	names := make([]string, 0, len(resp.Headers))
	for name := range resp.Headers {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		for _, value := range resp.Headers[name] {
			fmt.Fprintf(w, "%s: %s\n", p.bold.Sprint(name), value)
		}
	}

	fmt.Fprintln(w)
}

func printBody(w io.Writer, body string) {
	if body == "" {
		return
	}

	fmt.Fprint(w, body)

	if !strings.HasSuffix(body, "\n") {
		fmt.Fprintln(w)
	}
}

// extract evaluates a gjson path against a JSON body.
func extract(body, query string) (string, error) {
	if !gjson.Valid(body) {
		return "", withExitCode(ExitNoMatch, fmt.Errorf("%w: the response body is not valid JSON", errNoMatch))
	}

	result := gjson.Get(body, query)
	if !result.Exists() {
		return "", withExitCode(ExitNoMatch, fmt.Errorf("%w: %q", errNoMatch, query))
	}

	return result.String(), nil
}
