package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/quellcode/quellcode/pkg/catalog"
	"github.com/quellcode/quellcode/pkg/generator"
	"github.com/quellcode/quellcode/pkg/state"
	"github.com/quellcode/quellcode/pkg/version"
)

const (
	defaultTheme  = "dracula"
	defaultFormat = "svg"
)

var ErrNoCode = errors.New("no code to render")

// StateProvider returns the current settings state. [state.Store] satisfies
// it.
type StateProvider interface {
	Load() state.SettingsPageState
}

// GetSettingsStateParams defines parameters for the get_settings_state tool.
type GetSettingsStateParams struct{}

// SettingsStateResult contains the current settings state.
type SettingsStateResult struct {
	Message string         `json:"message"`
	App     state.AppState `json:"app"`
	Visible bool           `json:"visible"`
	Visited bool           `json:"visited"`
}

// RenderCodeParams defines parameters for the render_code tool.
type RenderCodeParams struct {
	Code   string `json:"code"`
	Theme  string `json:"theme,omitempty"`
	Syntax string `json:"syntax,omitempty"`
	Format string `json:"format,omitempty"`
}

// RenderCodeResult contains the generated output.
type RenderCodeResult struct {
	Output    string `json:"output"`
	Theme     string `json:"theme"`
	Syntax    string `json:"syntax"`
	Format    string `json:"format"`
	Extension string `json:"extension"`
	Message   string `json:"message"`
}

// Server implements the MCP server for quellcode.
type Server struct {
	state      StateProvider
	catalog    *catalog.Catalog
	generators *generator.Registry
	server     *mcp.Server
	tracer     trace.Tracer
	address    string
	theme      string
	format     string
	options    generator.Options
}

type Opt func(*Server)

func WithCatalog(c *catalog.Catalog) Opt {
	return func(s *Server) {
		s.catalog = c
	}
}

func WithGenerators(r *generator.Registry) Opt {
	return func(s *Server) {
		s.generators = r
	}
}

// WithDefaults sets the theme and format used when a request leaves them
// empty.
func WithDefaults(theme, format string) Opt {
	return func(s *Server) {
		if theme != "" {
			s.theme = theme
		}
		if format != "" {
			s.format = format
		}
	}
}

// WithOptions sets the generator options used for every render.
func WithOptions(o generator.Options) Opt {
	return func(s *Server) {
		s.options = o
	}
}

// NewServer creates a new MCP server. An empty address serves stdio.
func NewServer(address string, sp StateProvider, opts ...Opt) (*Server, error) {
	if sp == nil {
		return nil, errors.New("nil state provider")
	}

	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address: address,
		state:   sp,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:  otel.Tracer("mcp-server"),
		theme:   defaultTheme,
		format:  defaultFormat,
		options: generator.DefaultOptions(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = catalog.New()
	}
	if s.generators == nil {
		s.generators = generator.DefaultRegistry()
	}

	if _, err := s.generators.Get(s.format); err != nil {
		return nil, fmt.Errorf("default format: %w", err)
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_settings_state",
		Description: "Get the theme and syntax names offered by the settings panel, and whether the panel is open and has been opened before.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, WithTracing(s.tracer, s.handleGetSettingsState))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_code",
		Description: "Render a code snippet with syntax highlighting. Use theme and syntax names EXACTLY as returned by get_settings_state.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"code": {
					Type:        "string",
					Description: "The source code to render.",
				},
				"theme": {
					Type:        "string",
					Description: "The theme name. Defaults to " + s.theme + ".",
				},
				"syntax": {
					Type:        "string",
					Description: "The syntax name, alias or a file name such as main.go. Detected from the code when empty.",
				},
				"format": {
					Type:        "string",
					Description: "The output format, one of: " + strings.Join(s.generators.Names(), ", ") + ". Defaults to " + s.format + ".",
					Enum:        toAny(s.generators.Names()),
				},
			},
			Required: []string{"code"},
		},
	}, WithTracing(s.tracer, s.handleRenderCode))
}

// SettingsState returns the current settings state.
func (s *Server) SettingsState(ctx context.Context) SettingsStateResult {
	_, span := s.tracer.Start(ctx, "settings-state")
	defer span.End()

	st := s.state.Load()

	return SettingsStateResult{
		Message: fmt.Sprintf("%d themes and %d syntaxes available. Settings panel visible: %t.",
			len(st.App.Themes), len(st.App.Syntaxes), st.Visible),
		App:     st.App,
		Visible: st.Visible,
		Visited: st.Visited,
	}
}

// Render generates p.Code in the requested format.
func (s *Server) Render(ctx context.Context, p RenderCodeParams) (RenderCodeResult, error) {
	_, span := s.tracer.Start(ctx, "render")
	defer span.End()

	if p.Code == "" {
		return RenderCodeResult{}, ErrNoCode
	}

	themeName := firstNonEmpty(p.Theme, s.theme)
	format := firstNonEmpty(p.Format, s.format)

	g, err := s.generators.Get(format)
	if err != nil {
		return RenderCodeResult{}, fmt.Errorf("get generator: %w", err)
	}

	style, err := s.catalog.LookupTheme(themeName)
	if err != nil {
		return RenderCodeResult{}, fmt.Errorf("lookup theme: %w", err)
	}

	lexer := s.catalog.DetectSyntax("", "", p.Code)
	if p.Syntax != "" {
		lexer, err = s.catalog.LookupSyntax(p.Syntax)
		if err != nil {
			return RenderCodeResult{}, fmt.Errorf("lookup syntax: %w", err)
		}
	}

	var sb strings.Builder

	err = generator.Generate(g, &sb, generator.Request{
		Style:   style,
		Lexer:   lexer,
		Code:    p.Code,
		Options: s.options,
	})
	if err != nil {
		return RenderCodeResult{}, fmt.Errorf("render %s: %w", g.Name(), err)
	}

	syntax := catalog.SyntaxName(lexer)

	return RenderCodeResult{
		Output:    sb.String(),
		Theme:     style.Name,
		Syntax:    syntax,
		Format:    g.Name(),
		Extension: g.Extension(),
		Message:   fmt.Sprintf("Rendered %s code as %s using theme %s.", syntax, g.Name(), style.Name),
	}, nil
}

// handleGetSettingsState handles the get_settings_state tool call.
func (s *Server) handleGetSettingsState(
	ctx context.Context,
	_ *mcp.ServerRequest[*mcp.CallToolParamsFor[GetSettingsStateParams]],
) (*mcp.CallToolResultFor[SettingsStateResult], error) {
	result := s.SettingsState(ctx)

	return &mcp.CallToolResultFor[SettingsStateResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
	}, nil
}

// handleRenderCode handles the render_code tool call.
func (s *Server) handleRenderCode(
	ctx context.Context,
	req *mcp.ServerRequest[*mcp.CallToolParamsFor[RenderCodeParams]],
) (*mcp.CallToolResultFor[RenderCodeResult], error) {
	result, err := s.Render(ctx, req.Params.Arguments)
	if err != nil {
		return nil, err
	}

	return &mcp.CallToolResultFor[RenderCodeResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: truncateString(result.Output, maxTextLen)},
		},
		StructuredContent: result,
	}, nil
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until it stops.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}

	return out
}
