package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/sapgui"
	"github.com/aretw0/sapgui/internal/logging"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/ports"
)

// SessionsURI is the resource exposing a fresh session inventory.
const SessionsURI = "sapgui://sessions"

// TransactionResponse is the structured result of current_transaction.
type TransactionResponse struct {
	Application string `json:"application" jsonschema_description:"Registered name of the GUI"`
	Transaction string `json:"transaction" jsonschema_description:"Transaction code of the current session, empty when none"`
}

// Service is the GUI access the MCP tools expose. *sapgui.Client implements it.
type Service interface {
	Application() string
	Sessions(ctx context.Context) (*domain.Snapshot, error)
	Transaction(ctx context.Context) (string, error)
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Store() ports.SnapshotStore
}

var _ Service = (*sapgui.Client)(nil)

// Server wraps a Service and exposes it as an MCP Server.
type Server struct {
	service   Service
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(service Service, opts ...Option) *Server {
	s := &Server{
		service:   service,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("sapgui-mcp", sapgui.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("Read every open session of the running SAP GUI: system, client, user, transaction and screen."),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleListSessions))

	s.mcpServer.AddTool(mcp.NewTool("current_transaction",
		mcp.WithDescription("Return the transaction code shown in the current SAP GUI session."),
		mcp.WithOutputSchema[TransactionResponse](),
	), mcp.NewStructuredToolHandler(s.handleCurrentTransaction))

	s.mcpServer.AddTool(mcp.NewTool("save_snapshot",
		mcp.WithDescription("Read the open sessions and persist them as a snapshot. Returns the saved snapshot."),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleSaveSnapshot))

	s.mcpServer.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Load a previously saved snapshot by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Snapshot ID")),
	), s.handleGetSnapshot)
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	snap, err := s.service.Sessions(ctx)
	if err != nil {
		s.logger.Error("MCP list_sessions failed", "err", err)
		return domain.Snapshot{}, fmt.Errorf("list sessions failed: %w", err)
	}
	return *snap, nil
}

func (s *Server) handleCurrentTransaction(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TransactionResponse, error) {
	tx, err := s.service.Transaction(ctx)
	if err != nil {
		s.logger.Error("MCP current_transaction failed", "err", err)
		return TransactionResponse{}, fmt.Errorf("read transaction failed: %w", err)
	}
	return TransactionResponse{Application: s.service.Application(), Transaction: tx}, nil
}

func (s *Server) handleSaveSnapshot(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	snap, err := s.service.Snapshot(ctx)
	if err != nil {
		s.logger.Error("MCP save_snapshot failed", "err", err)
		return domain.Snapshot{}, fmt.Errorf("save snapshot failed: %w", err)
	}
	return *snap, nil
}

func (s *Server) handleGetSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	store := s.service.Store()
	if store == nil {
		return mcp.NewToolResultError(sapgui.ErrNoStore.Error()), nil
	}
	snap, err := store.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load snapshot failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(snap)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Open SAP GUI sessions",
		mcp.WithMIMEType("application/json"),
	), s.readSessions)
}

func (s *Server) readSessions(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap, err := s.service.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	jsonBytes, _ := json.Marshal(snap)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SessionsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
