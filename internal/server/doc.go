// Package server provides the MCP server context, session management,
// and operational HTTP endpoints for the mailquill application.
//
// # Key Components
//
// ServerContext manages Gmail API clients with lazy initialization and
// caching. It supports multiple accounts, each backed by its own stored
// OAuth token.
//
// SessionIDManager handles multi-account session tracking for HTTP
// transport. It maps Bearer tokens to Google accounts, enabling multiple
// users to share a single MCP server instance.
//
// HealthChecker exposes liveness and readiness endpoints for Kubernetes
// probes, and MetricsServer serves Prometheus metrics on a dedicated port
// so operational data stays off the main application listener.
package server
