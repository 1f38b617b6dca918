// Package http is the HTTP transport of the dashboard API. Handlers
// parse and validate requests, delegate to the services, and render JSON
// responses; failures go through the centralized RFC 7807 error handler.
package http
