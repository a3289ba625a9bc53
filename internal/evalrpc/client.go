// Package evalrpc is the production adapter for the external
// expression-evaluation service: one Evaluate RPC carrying an expression
// string and a binding for x. The service owns the grammar; this side
// only moves values.
package evalrpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/numcore/solver/internal/expr"
)

// #region wire

// evaluateMethod is the full RPC method name exposed by the service.
// The message surface is two flat maps, carried as structpb values, so
// no generated stubs are needed on this side.
const evaluateMethod = "/mathexpr.Evaluator/Evaluate"

// invoker abstracts the gRPC connection so the client can be tested
// without a live service.
type invoker interface {
	Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error
}

// #endregion wire

// #region client

// Client implements expr.Evaluator against the remote service.
type Client struct {
	conn    *grpc.ClientConn
	rpc     invoker
	timeout time.Duration
}

// DefaultTimeout bounds a single Evaluate round trip.
const DefaultTimeout = 5 * time.Second

// NewClient connects to the evaluation service at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, rpc: conn, timeout: DefaultTimeout}, nil
}

// NewClientWithInvoker creates a Client with an injected transport.
// Used for testing without a real gRPC connection.
func NewClientWithInvoker(inv invoker) *Client {
	return &Client{rpc: inv, timeout: DefaultTimeout}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion client

// #region evaluate

// Evaluate sends the expression and binding to the service. Service-side
// parse or evaluation failures come back as *expr.EvalError, matching
// the in-process evaluators.
func (c *Client) Evaluate(expression string, x float64) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{
		"expression": expression,
		"x":          x,
	})
	if err != nil {
		return 0, &expr.EvalError{Expression: expression, X: x, Err: fmt.Errorf("build request: %w", err)}
	}

	var resp structpb.Struct
	if err := c.rpc.Invoke(ctx, evaluateMethod, req, &resp); err != nil {
		return 0, &expr.EvalError{Expression: expression, X: x, Err: fmt.Errorf("evaluate rpc: %w", err)}
	}

	fields := resp.GetFields()
	if msg := fields["error"].GetStringValue(); msg != "" {
		return 0, &expr.EvalError{Expression: expression, X: x, Err: fmt.Errorf("service: %s", msg)}
	}
	value, ok := fields["value"]
	if !ok {
		return 0, &expr.EvalError{Expression: expression, X: x, Err: fmt.Errorf("service response missing value")}
	}
	return value.GetNumberValue(), nil
}

// #endregion evaluate
