package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/postal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	table := postal.NewTable([]postal.Place{
		{Code: "98101", Region: "WA", City: "Seattle"},
		{Code: "97201", Region: "OR", City: "Portland"},
	})
	return New(estimator.New(estimator.DefaultOptions(table)), "R&B Siding", "test", opts...)
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func decode(t *testing.T, result *mcp.CallToolResult) snapshot {
	t.Helper()
	text := extractText(result)
	// Error results carry the message on the first line
	if i := strings.Index(text, "\n"); i >= 0 && result.IsError {
		text = text[i+1:]
	}
	var snap snapshot
	require.NoError(t, json.Unmarshal([]byte(text), &snap), "body: %s", text)
	return snap
}

func TestTools_HappyPath(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	res, err := srv.handleSetZipCode(ctx, call("set-zip-code", map[string]any{"zip_code": "98101"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	snap := decode(t, res)
	assert.Equal(t, estimator.StatusValid, snap.State.ZipCodeStatus)
	assert.True(t, snap.CanSubmit)

	res, err = srv.submitHandler(func(w *estimator.Wizard) error { return w.SubmitZipCode() })(ctx, call("submit-zip-code", nil))
	require.NoError(t, err)
	assert.Equal(t, estimator.StepSquareFootage, decode(t, res).State.Step)

	res, err = srv.handleSetSquareFootage(ctx, call("set-square-footage", map[string]any{"square_footage": float64(2000)}))
	require.NoError(t, err)
	snap = decode(t, res)
	assert.Equal(t, 9000.0, snap.State.Estimate)
	assert.Equal(t, "$9,000.00", snap.Estimate)

	res, err = srv.handleGetQuote(ctx, call("get-quote", nil))
	require.NoError(t, err)
	assert.Contains(t, extractText(res), "Seattle, WA 98101")
}

func TestTools_RejectedSubmit(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	_, err := srv.handleSetZipCode(ctx, call("set-zip-code", map[string]any{"zip_code": "00000"}))
	require.NoError(t, err)

	res, err := srv.submitHandler(func(w *estimator.Wizard) error { return w.SubmitZipCode() })(ctx, call("submit-zip-code", nil))
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, extractText(res), estimator.ErrInvalidZip.Error())

	snap := decode(t, res)
	assert.Equal(t, "invalid_zip", snap.Rejected)
	assert.Equal(t, estimator.StepZipCode, snap.State.Step)
}

func TestTools_SubmitEmailRunsContactHook(t *testing.T) {
	acks := 0
	srv := setupTestServer(t, WithContactHook(func() { acks++ }))
	ctx := context.Background()

	_, _ = srv.handleSetEmail(ctx, call("set-email", map[string]any{"email": "a@b"}))
	res, err := srv.handleSubmitEmail(ctx, call("submit-email", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, 0, acks)

	_, _ = srv.handleSetEmail(ctx, call("set-email", map[string]any{"email": "a@b.co"}))
	res, err = srv.handleSubmitEmail(ctx, call("submit-email", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, 1, acks)
}

func TestTools_GoToStepAndReset(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	res, err := srv.handleGoToStep(ctx, call("go-to-step", map[string]any{"step": "result"}))
	require.NoError(t, err)
	assert.Equal(t, estimator.StepResult, decode(t, res).State.Step)

	res, err = srv.handleGoToStep(ctx, call("go-to-step", map[string]any{"step": "nowhere"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = srv.handleReset(ctx, call("reset", nil))
	require.NoError(t, err)
	assert.Equal(t, estimator.StepZipCode, decode(t, res).State.Step)
}

func TestTools_SetSquareFootageClamps(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		want     int
		estimate float64
	}{
		{"negative", -1000, 0, 0},
		{"above max", 123456, 10000, 45000},
		{"off step", 250, 300, 1350},
		{"on step", 2000, 2000, 9000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupTestServer(t)
			res, err := srv.handleSetSquareFootage(context.Background(),
				call("set-square-footage", map[string]any{"square_footage": tt.in}))
			require.NoError(t, err)
			require.False(t, res.IsError)

			snap := decode(t, res)
			assert.Equal(t, tt.want, snap.State.SquareFootage)
			assert.InDelta(t, tt.estimate, snap.State.Estimate, 1e-9)
		})
	}
}

func TestTools_SetSquareFootageCustomLimits(t *testing.T) {
	srv := setupTestServer(t, WithFootageLimits(500, 50))
	res, err := srv.handleSetSquareFootage(context.Background(),
		call("set-square-footage", map[string]any{"square_footage": float64(620)}))
	require.NoError(t, err)
	assert.Equal(t, 500, decode(t, res).State.SquareFootage)
}

func TestTools_BadArguments(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
	}{
		{"zip missing", srv.handleSetZipCode, map[string]any{}},
		{"zip wrong type", srv.handleSetZipCode, map[string]any{"zip_code": 98101}},
		{"sqft fractional", srv.handleSetSquareFootage, map[string]any{"square_footage": 12.5}},
		{"sqft string", srv.handleSetSquareFootage, map[string]any{"square_footage": "2000"}},
		{"email missing", srv.handleSetEmail, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.handler(ctx, call("x", tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

func TestStartStop(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	port, err := srv.Start(ctx, "127.0.0.1:0")
	require.NoError(t, err)
	assert.NotZero(t, port)
	assert.Contains(t, srv.URL(), "/mcp")

	_, err = srv.Start(ctx, "127.0.0.1:0")
	assert.Error(t, err, "second start should fail")

	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, srv.Stop(ctx))
}
