package service

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client invokes the Canonicalizer over a gRPC connection with dynamic
// messages built from the same embedded contract the server uses.
type Client struct {
	conn *grpc.ClientConn
	sd   *desc.ServiceDescriptor
}

// Dial connects to a canonicalization server.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return NewClient(conn)
}

// NewClient wraps an established connection.
func NewClient(conn *grpc.ClientConn) (*Client, error) {
	sd, err := serviceDescriptor()
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, sd: sd}, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// invoke performs one unary call, building the request from fields.
func (c *Client) invoke(ctx context.Context, method string, fields map[string]interface{}) (*dynamic.Message, error) {
	md := c.sd.FindMethodByName(method)
	if md == nil {
		return nil, fmt.Errorf("method %s not found in service descriptor", method)
	}

	reqMsg := dynamic.NewMessage(md.GetInputType())
	if err := populateMessage(reqMsg, fields); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	respMsg := dynamic.NewMessage(md.GetOutputType())

	fullMethod := "/" + c.sd.GetFullyQualifiedName() + "/" + method
	if err := c.conn.Invoke(ctx, fullMethod, reqMsg, respMsg); err != nil {
		return nil, err
	}
	return respMsg, nil
}

// Canonicalize sends source to the server and returns the canonical
// renderings along with any diagnostics.
func (c *Client) Canonicalize(ctx context.Context, source, filePath string) (Result, error) {
	respMsg, err := c.invoke(ctx, "Canonicalize", map[string]interface{}{
		"source":    source,
		"file_path": filePath,
	})
	if err != nil {
		return Result{}, err
	}
	return decodeResult(respMsg), nil
}

// Check reports whether source canonicalizes cleanly.
func (c *Client) Check(ctx context.Context, source string) (CheckStatus, error) {
	respMsg, err := c.invoke(ctx, "Check", map[string]interface{}{
		"source": source,
	})
	if err != nil {
		return CheckStatus{}, err
	}
	return decodeCheck(respMsg), nil
}
