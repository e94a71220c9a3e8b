// ABOUTME: Server bundles named capabilities and owns their start/stop lifecycle.
// ABOUTME: Lookup is name-exact; registration rejects duplicates instead of shadowing.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrToolNotFound indicates the requested tool is not registered on the server.
var ErrToolNotFound = errors.New("tool not found")

// ErrResourceNotFound indicates the requested resource is not registered on the server.
var ErrResourceNotFound = errors.New("resource not found")

// ErrDuplicateName indicates a capability name already registered on the server.
var ErrDuplicateName = errors.New("capability name already registered")

// ErrServerStopped indicates an invocation against a server that is not running.
var ErrServerStopped = errors.New("server not running")

// Server is an addressable bundle of capabilities. The name is the routing
// key clients resolve against and must be globally unique per client.
type Server struct {
	name        string
	description string
	logger      *slog.Logger

	mu        sync.RWMutex
	resources map[string]*Resource
	tools     map[string]*Tool
	running   bool
}

// NewServer creates a stopped server with no capabilities.
func NewServer(name, description string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		name:        name,
		description: description,
		logger:      logger.With("component", "mcp", "server", name),
		resources:   make(map[string]*Resource),
		tools:       make(map[string]*Tool),
	}
}

// Name returns the server's routing key.
func (s *Server) Name() string { return s.name }

// Description returns the server's human-readable description.
func (s *Server) Description() string { return s.description }

// Running reports whether the server has been started.
func (s *Server) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// AddResource registers a resource. A name already taken by any capability
// on this server fails with ErrDuplicateName.
func (s *Server) AddResource(r *Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkName(r.Name); err != nil {
		return err
	}
	s.resources[r.Name] = r
	return nil
}

// AddTool registers a tool. A name already taken by any capability on this
// server fails with ErrDuplicateName.
func (s *Server) AddTool(t *Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkName(t.Name); err != nil {
		return err
	}
	s.tools[t.Name] = t
	return nil
}

// checkName verifies the name is free. Must be called with mu held.
func (s *Server) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("capability name cannot be empty")
	}
	if _, exists := s.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if _, exists := s.resources[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	return nil
}

// Start marks the server running. Calling Start on a running server is a
// no-op so racing initializers are safe.
func (s *Server) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.logger.Info("server started",
		"tools", len(s.tools),
		"resources", len(s.resources),
	)
}

// Stop marks the server stopped. Idempotent.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.logger.Info("server stopped")
}

// GetTool returns the registered tool or false. Lookup is case-sensitive.
func (s *Server) GetTool(name string) (*Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tools[name]
	return t, ok
}

// GetResource returns the registered resource or false. Lookup is case-sensitive.
func (s *Server) GetResource(name string) (*Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[name]
	return r, ok
}

// Tools returns the names of all registered tools.
func (s *Server) Tools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	return names
}

// Resources returns the names of all registered resources.
func (s *Server) Resources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	return names
}

// ExecuteTool resolves the tool by name and runs it. The tool's own result
// and error pass through unmodified; the protocol layer adds no wrapping.
func (s *Server) ExecuteTool(ctx context.Context, name string, params Params) (any, error) {
	s.mu.RLock()
	running := s.running
	tool, ok := s.tools[name]
	s.mu.RUnlock()

	if !running {
		return nil, fmt.Errorf("%w: %s", ErrServerStopped, s.name)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	s.logger.Debug("executing tool", "tool", name)
	return tool.Execute(ctx, params)
}

// FetchResource resolves the resource by name and fetches it.
func (s *Server) FetchResource(ctx context.Context, name string) (any, error) {
	s.mu.RLock()
	running := s.running
	resource, ok := s.resources[name]
	s.mu.RUnlock()

	if !running {
		return nil, fmt.Errorf("%w: %s", ErrServerStopped, s.name)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	s.logger.Debug("fetching resource", "resource", name)
	return resource.Fetch(ctx)
}
