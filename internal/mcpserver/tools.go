package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/logger"
)

// snapshot is the JSON body every tool returns.
type snapshot struct {
	State     estimator.State `json:"state"`
	CanSubmit bool            `json:"can_submit"`
	Estimate  string          `json:"estimate_display"`
	Rejected  string          `json:"rejected,omitempty"` // ValidationError kind of a failed submit
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get-state",
			mcp.WithDescription("Return the current estimator wizard state"),
		),
		s.handleGetState,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("set-zip-code",
			mcp.WithDescription("Enter the property zip code (up to 5 digits); updates zip_code_status"),
			mcp.WithString("zip_code", mcp.Required(), mcp.Description("Raw zip code input")),
		),
		s.handleSetZipCode,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("submit-zip-code",
			mcp.WithDescription("Advance to the square footage step; fails unless the zip code is in the service area"),
		),
		s.submitHandler(func(w *estimator.Wizard) error { return w.SubmitZipCode() }),
	)
	s.mcpServer.AddTool(
		mcp.NewTool("set-square-footage",
			mcp.WithDescription("Set the siding square footage and recompute the estimate"),
			mcp.WithNumber("square_footage", mcp.Required(), mcp.Description("Square footage; clamped to the allowed range and rounded to the nearest step")),
		),
		s.handleSetSquareFootage,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("submit-square-footage",
			mcp.WithDescription("Advance to the result step; fails when square footage is zero"),
		),
		s.submitHandler(func(w *estimator.Wizard) error { return w.SubmitSquareFootage() }),
	)
	s.mcpServer.AddTool(
		mcp.NewTool("set-email",
			mcp.WithDescription("Enter the contact email; updates email_status"),
			mcp.WithString("email", mcp.Required(), mcp.Description("Raw email input")),
		),
		s.handleSetEmail,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("submit-email",
			mcp.WithDescription("Submit the contact email; fails unless it is a valid address"),
		),
		s.handleSubmitEmail,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("go-to-step",
			mcp.WithDescription("Jump to a step without validation"),
			mcp.WithString("step", mcp.Required(),
				mcp.Enum("zip_code", "square_footage", "result"),
				mcp.Description("Target step"),
			),
		),
		s.handleGoToStep,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("get-quote",
			mcp.WithDescription("Return the current quote as markdown"),
		),
		s.handleGetQuote,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("reset",
			mcp.WithDescription("Discard all input and start over"),
		),
		s.handleReset,
	)
}

// result renders the current wizard state. Callers must hold s.mu.
func (s *Server) result(rejected error) *mcp.CallToolResult {
	snap := snapshot{
		State:     s.wizard.State(),
		CanSubmit: s.wizard.CanSubmit(),
		Estimate:  estimator.FormatCurrency(s.wizard.State().Estimate),
	}
	if kind, ok := estimator.KindOf(rejected); ok {
		snap.Rejected = kind.String()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode state: %v", err))
	}
	if rejected != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v\n%s", rejected, data))
	}
	return mcp.NewToolResultText(string(data))
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result(nil), nil
}

func (s *Server) handleSetZipCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}
	zip, ok := args["zip_code"].(string)
	if !ok {
		return mcp.NewToolResultError("missing or invalid 'zip_code' parameter"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.SetZipCode(zip)
	return s.result(nil), nil
}

func (s *Server) handleSetSquareFootage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}
	// JSON numbers come as float64
	var sqft int
	switch v := args["square_footage"].(type) {
	case float64:
		if v != math.Trunc(v) {
			return mcp.NewToolResultError("'square_footage' must be a whole number"), nil
		}
		sqft = int(v)
	case int:
		sqft = v
	default:
		return mcp.NewToolResultError("missing or invalid 'square_footage' parameter"), nil
	}

	clamped := estimator.ClampFootage(sqft, s.maxFootage, s.footageStep)
	if clamped != sqft {
		logger.Debug("Clamped square footage %d to %d", sqft, clamped)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.SetSquareFootage(clamped)
	return s.result(nil), nil
}

func (s *Server) handleSetEmail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}
	email, ok := args["email"].(string)
	if !ok {
		return mcp.NewToolResultError("missing or invalid 'email' parameter"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.SetEmail(email)
	return s.result(nil), nil
}

func (s *Server) handleSubmitEmail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	err := s.wizard.SubmitEmail()
	res := s.result(err)
	s.mu.Unlock()

	if err == nil && s.onContact != nil {
		s.onContact()
	}
	return res, nil
}

func (s *Server) submitHandler(submit func(*estimator.Wizard) error) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.result(submit(s.wizard)), nil
	}
}

func (s *Server) handleGoToStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}
	name, _ := args["step"].(string)
	step, err := estimator.ParseStep(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.GoToStep(step)
	return s.result(nil), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Reset()
	return s.result(nil), nil
}

func (s *Server) handleGetQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mcp.NewToolResultText(s.wizard.Quote().Markdown(s.company)), nil
}
