// Package mockapi serves a small JSON API modeled on the posts resource of
// jsonplaceholder.typicode.com, plus a few diagnostic endpoints:
//
//	GET   /posts          lists the 100 canned posts, paged by _page and _limit
//	POST  /posts          creates a post, assigns an id > 100, answers 201
//	GET   /posts/:id      returns a canned post
//	PUT   /posts/:id      echoes the JSON body with the id set
//	PATCH /posts/:id      same as PUT
//	ANY   /headers        returns the request headers as JSON
//	ANY   /echo           returns the raw request body and content type
//	ANY   /invalid-json   answers 200 application/json with a broken body
//	ANY   /text           answers 200 text/plain
//	ANY   /status/:code   answers with the given status and a JSON body
//
// Every request is recorded before it is routed.
package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyle182810/webber/middleware"
	"github.com/andyle182810/webber/pagination"
	"github.com/labstack/echo/v5"
	"github.com/rs/zerolog"
)

const (
	HeaderTotalCount = "X-Total-Count"
	HeaderTotalPages = "X-Total-Pages"
)

const (
	postBaseID  = 100
	postCount   = 100
	mockUserID  = 1
	invalidJSON = "{not json"
	plainText   = "plain text"
	maxStatus   = 599
)

type Post struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type RecordedRequest struct {
	Method        string
	Path          string
	Header        http.Header
	Body          []byte
	ContentLength int64
}

type API struct {
	echo     *echo.Echo
	delay    time.Duration
	mu       sync.Mutex
	requests []RecordedRequest
	nextID   atomic.Int64
}

type Option func(*API)

// WithDelay holds every response for d before it is written.
func WithDelay(d time.Duration) Option {
	return func(a *API) {
		a.delay = d
	}
}

func New(logger zerolog.Logger, opts ...Option) *API {
	api := &API{ //nolint:exhaustruct
		requests: make([]RecordedRequest, 0),
	}
	api.nextID.Store(postBaseID)

	for _, opt := range opts {
		opt(api)
	}

	iecho := echo.New()
	iecho.Use(api.record)
	iecho.Use(middleware.RequestID(nil))
	iecho.Use(middleware.RequestLogger(logger))

	iecho.GET("/posts", api.listPosts)
	iecho.POST("/posts", api.createPost)
	iecho.GET("/posts/:id", api.getPost)
	iecho.PUT("/posts/:id", api.updatePost)
	iecho.PATCH("/posts/:id", api.updatePost)
	iecho.Any("/headers", api.echoHeaders)
	iecho.Any("/echo", api.echoBody)
	iecho.Any("/invalid-json", api.invalidJSON)
	iecho.Any("/text", api.plainText)
	iecho.Any("/status/:code", api.status)

	api.echo = iecho

	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.echo.ServeHTTP(w, r)
}

func (a *API) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	requests := make([]RecordedRequest, len(a.requests))
	copy(requests, a.requests)

	return requests
}

func (a *API) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx *echo.Context) error {
		req := ctx.Request()

		body, err := io.ReadAll(req.Body)
		if err != nil {
			return err
		}

		req.Body = io.NopCloser(bytes.NewReader(body))

		a.mu.Lock()
		a.requests = append(a.requests, RecordedRequest{
			Method:        req.Method,
			Path:          req.URL.Path,
			Header:        req.Header.Clone(),
			Body:          body,
			ContentLength: req.ContentLength,
		})
		a.mu.Unlock()

		if a.delay > 0 {
			select {
			case <-time.After(a.delay):
			case <-req.Context().Done():
				return req.Context().Err()
			}
		}

		return next(ctx)
	}
}

func (a *API) listPosts(ctx *echo.Context) error {
	page := pagination.Parse(ctx.QueryParam("_page"), ctx.QueryParam("_limit"))
	start, end := page.Bounds(postCount)

	posts := make([]Post, 0, end-start)
	for id := start + 1; id <= end; id++ {
		posts = append(posts, cannedPost(int64(id)))
	}

	ctx.Response().Header().Set(HeaderTotalCount, strconv.Itoa(postCount))
	ctx.Response().Header().Set(HeaderTotalPages, strconv.Itoa(pagination.TotalPages(postCount, page.Size)))

	return ctx.JSON(http.StatusOK, posts)
}

func (a *API) createPost(ctx *echo.Context) error {
	var post Post
	if err := json.NewDecoder(ctx.Request().Body).Decode(&post); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	post.ID = a.nextID.Add(1)

	return ctx.JSON(http.StatusCreated, post)
}

func (a *API) getPost(ctx *echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusNotFound, map[string]string{})
	}

	return ctx.JSON(http.StatusOK, cannedPost(id))
}

func cannedPost(id int64) Post {
	return Post{
		ID:     id,
		UserID: mockUserID,
		Title:  "mock title",
		Body:   "mock body",
	}
}

func (a *API) updatePost(ctx *echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusNotFound, map[string]string{})
	}

	fields := make(map[string]any)
	if err := json.NewDecoder(ctx.Request().Body).Decode(&fields); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	fields["id"] = id

	return ctx.JSON(http.StatusOK, fields)
}

func (a *API) echoHeaders(ctx *echo.Context) error {
	return ctx.JSON(http.StatusOK, ctx.Request().Header)
}

func (a *API) echoBody(ctx *echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return err
	}

	return ctx.Blob(http.StatusOK, ctx.Request().Header.Get("Content-Type"), body)
}

func (a *API) invalidJSON(ctx *echo.Context) error {
	return ctx.Blob(http.StatusOK, "application/json", []byte(invalidJSON))
}

func (a *API) plainText(ctx *echo.Context) error {
	return ctx.Blob(http.StatusOK, "text/plain", []byte(plainText))
}

func (a *API) status(ctx *echo.Context) error {
	code, err := strconv.Atoi(ctx.Param("code"))
	if err != nil || code < http.StatusOK || code > maxStatus {
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, map[string]int{"status": code})
}
