// Package httpapi is the HTTP surface of segd: a chi router exposing
// GET /, GET /init, POST /segment plus health, status and metrics endpoints.
//
//   - server.go: Service interface, NewMux and the handlers.
//   - errors.go: error to status mapping and JSON error payloads.
//   - logging.go: zerolog logger and per-request log level (?log=, X-Log-Level, SEGD_LOG_LEVEL).
//   - metrics.go: Prometheus HTTP middleware.
//   - config.go: package-level knobs (body limit, segment timeout, strict status, CORS).
//   - context.go: server base context joined into handler contexts.
//   - swagger.go / swagger_stub.go: Swagger UI behind the swagger build tag.
package httpapi
