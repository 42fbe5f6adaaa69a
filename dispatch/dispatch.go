// Package dispatch routes inbound operations to command and query handlers.
//
// A route is matched by exact comparison of the HTTP method and the resource
// path template (e.g. "/book/{bookId}/borrow/{userId}"), never by the concrete path.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jacentio/shelf/library"
)

// Kind separates state-changing operations from reads.
type Kind string

const (
	KindCommand Kind = "Command"
	KindQuery   Kind = "Query"
)

// KindOf classifies a request method: GET is a query, everything else a command.
func KindOf(method string) Kind {
	if strings.EqualFold(method, "GET") {
		return KindQuery
	}
	return KindCommand
}

// Context is the transport-independent form of an inbound request.
type Context struct {
	Method          string
	Resource        string
	PathParameters  map[string]string
	QueryParameters map[string]string
	Body            string
	RequestID       string
}

// PathParam returns a required path parameter.
func (c Context) PathParam(name string) (string, error) {
	if v := c.PathParameters[name]; v != "" {
		return v, nil
	}
	return "", library.NewArgumentError("Missing path parameter: %s", name)
}

// QueryParam returns a required query string parameter.
func (c Context) QueryParam(name string) (string, error) {
	if v := c.QueryParameters[name]; v != "" {
		return v, nil
	}
	return "", library.NewArgumentError("Missing query string parameter: %s", name)
}

// DecodeBody unmarshals the JSON body into v.
func (c Context) DecodeBody(v any) error {
	if strings.TrimSpace(c.Body) == "" {
		return library.NewArgumentError("Missing request body")
	}
	if err := json.Unmarshal([]byte(c.Body), v); err != nil {
		return library.NewArgumentError("Malformed request body: %v", err)
	}
	return nil
}

// HandlerFunc executes one operation.
type HandlerFunc func(ctx context.Context, req Context) (any, error)

// Route binds a method and resource template to a handler.
type Route struct {
	Method   string
	Resource string
	Name     string
	Handle   HandlerFunc
}

// Kind reports whether the route is a command or a query.
func (r Route) Kind() Kind {
	return KindOf(r.Method)
}

type routeKey struct {
	method   string
	resource string
}

// Dispatcher holds a fixed table of routes.
type Dispatcher struct {
	routes  map[routeKey]Route
	ordered []Route
}

// New creates a Dispatcher with the given routes.
func New(routes ...Route) *Dispatcher {
	d := &Dispatcher{routes: make(map[routeKey]Route)}
	for _, r := range routes {
		d.Register(r)
	}
	return d
}

// Register adds a route. A later route with the same method and resource replaces the earlier one.
func (d *Dispatcher) Register(r Route) {
	r.Method = strings.ToUpper(r.Method)
	k := routeKey{method: r.Method, resource: r.Resource}
	if _, exists := d.routes[k]; !exists {
		d.ordered = append(d.ordered, r)
	} else {
		for i := range d.ordered {
			if d.ordered[i].Method == r.Method && d.ordered[i].Resource == r.Resource {
				d.ordered[i] = r
			}
		}
	}
	d.routes[k] = r
}

// Routes returns the routes in registration order.
func (d *Dispatcher) Routes() []Route {
	return d.ordered
}

// Match finds the route for a request.
func (d *Dispatcher) Match(req Context) (Route, bool) {
	r, ok := d.routes[routeKey{method: strings.ToUpper(req.Method), resource: req.Resource}]
	return r, ok
}

// Dispatch runs the handler matching the request.
func (d *Dispatcher) Dispatch(ctx context.Context, req Context) (any, error) {
	route, ok := d.Match(req)
	if !ok {
		return nil, &UnrecognizedOperationError{
			Kind:      KindOf(req.Method),
			Resource:  req.Resource,
			RequestID: req.RequestID,
		}
	}
	return route.Handle(ctx, req)
}

// ErrUnrecognizedOperation is returned when no route matches a request.
var ErrUnrecognizedOperation = errors.New("shelf: unrecognized operation")

// UnrecognizedOperationError describes the unmatched request.
type UnrecognizedOperationError struct {
	Kind      Kind
	Resource  string
	RequestID string
}

// Error implements error.
func (e *UnrecognizedOperationError) Error() string {
	return fmt.Sprintf("Unrecognized Operation - %s: %s (AWS Request ID: %s)", e.Kind, e.Resource, e.RequestID)
}

// Is reports whether target is ErrUnrecognizedOperation.
func (e *UnrecognizedOperationError) Is(target error) bool {
	return target == ErrUnrecognizedOperation
}
