// Package service exposes the canonicalization pipeline over gRPC.
//
// The wire contract lives in an embedded .proto source compiled at
// startup with protoparse; requests and responses are dynamic messages,
// so neither server nor client needs generated code.
package service

import (
	"context"
	"fmt"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/packsig/internal/analyzer"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/lexer"
	"github.com/funvibe/packsig/internal/parser"
	"github.com/funvibe/packsig/internal/pipeline"
	"github.com/funvibe/packsig/internal/prettyprinter"
)

// Result carries the outcome of one canonicalization request.
type Result struct {
	Canonical   []string
	Diagnostics []Diagnostic
}

// Diagnostic mirrors the wire diagnostic message.
type Diagnostic struct {
	Code    string
	Line    int
	Column  int
	Message string
}

// CheckStatus summarizes a Check call.
type CheckStatus struct {
	OK          bool
	Diagnostics int
}

// canonicalize runs the full pipeline over one source text.
func canonicalize(source, filePath string) Result {
	pctx := pipeline.NewPipelineContext(source)
	pctx.FilePath = filePath

	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&prettyprinter.RenderProcessor{},
	)
	final := p.Run(pctx)

	diagnostics.Sort(final.Errors)
	res := Result{Canonical: final.Rendered}
	for _, e := range final.Errors {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Code:    string(e.Code),
			Line:    e.Token.Line,
			Column:  e.Token.Column,
			Message: e.Message,
		})
	}
	return res
}

// Server hosts the Canonicalizer. The parsed descriptor drives both
// method routing and message construction.
type Server struct {
	grpc *grpc.Server
	sd   *desc.ServiceDescriptor
}

// NewServer builds a ready-to-serve Canonicalizer.
func NewServer() (*Server, error) {
	sd, err := serviceDescriptor()
	if err != nil {
		return nil, err
	}
	s := &Server{grpc: grpc.NewServer(), sd: sd}
	s.registerService()
	return s, nil
}

// registerService hand-builds the grpc.ServiceDesc from the descriptor,
// routing every unary method through handleUnary.
func (s *Server) registerService() {
	gsd := &grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Methods:     []grpc.MethodDesc{},
		Streams:     []grpc.StreamDesc{},
		Metadata:    s.sd.GetFile().GetName(),
	}

	for _, method := range s.sd.GetMethods() {
		if method.IsClientStreaming() || method.IsServerStreaming() {
			continue
		}

		md := method

		gsd.Methods = append(gsd.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				h := srv.(*Server)
				return h.handleUnary(ctx, md, dec)
			},
		})
	}

	s.grpc.RegisterService(gsd, s)
}

func (s *Server) handleUnary(ctx context.Context, md *desc.MethodDescriptor, dec func(interface{}) error) (interface{}, error) {
	inMsg := dynamic.NewMessage(md.GetInputType())
	if err := dec(inMsg); err != nil {
		return nil, err
	}

	outMsg := dynamic.NewMessage(md.GetOutputType())

	switch md.GetName() {
	case "Canonicalize":
		res := canonicalize(stringField(inMsg, "source"), stringField(inMsg, "file_path"))
		if err := encodeResult(outMsg, res); err != nil {
			return nil, err
		}
	case "Check":
		res := canonicalize(stringField(inMsg, "source"), "")
		if err := encodeCheck(outMsg, res); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("method %s not implemented", md.GetName())
	}

	return outMsg, nil
}

// Serve accepts connections on lis until stopped.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// ListenAndServe binds addr and serves until stopped.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// GracefulStop drains in-flight requests and stops the server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}
