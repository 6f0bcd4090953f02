package service

import (
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

// protoFileName keys the embedded source for the parser accessor.
const protoFileName = "packsig/v1/canonicalizer.proto"

// serviceName is the fully qualified gRPC service name.
const serviceName = "packsig.v1.Canonicalizer"

// protoSource is the wire contract. It is parsed at startup with
// protoparse, so the package works without generated stubs.
const protoSource = `syntax = "proto3";

package packsig.v1;

// Canonicalizer turns signature declarations into canonical renderings.
service Canonicalizer {
  rpc Canonicalize(CanonicalizeRequest) returns (CanonicalizeResponse);
  rpc Check(CheckRequest) returns (CheckResponse);
}

message CanonicalizeRequest {
  string source = 1;
  string file_path = 2;
}

message CanonicalizeResponse {
  repeated string canonical = 1;
  repeated Diagnostic diagnostics = 2;
}

message Diagnostic {
  string code = 1;
  int32 line = 2;
  int32 column = 3;
  string message = 4;
}

message CheckRequest {
  string source = 1;
}

message CheckResponse {
  bool ok = 1;
  int32 diagnostics = 2;
}
`

var (
	descriptorOnce sync.Once
	fileDescriptor *desc.FileDescriptor
	descriptorErr  error
)

// descriptor parses the embedded proto source once and caches the result.
func descriptor() (*desc.FileDescriptor, error) {
	descriptorOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{
				protoFileName: protoSource,
			}),
		}
		fds, err := parser.ParseFiles(protoFileName)
		if err != nil {
			descriptorErr = fmt.Errorf("parsing embedded proto: %w", err)
			return
		}
		fileDescriptor = fds[0]
	})
	return fileDescriptor, descriptorErr
}

// serviceDescriptor resolves the Canonicalizer service from the embedded
// proto.
func serviceDescriptor() (*desc.ServiceDescriptor, error) {
	fd, err := descriptor()
	if err != nil {
		return nil, err
	}
	sd := fd.FindService(serviceName)
	if sd == nil {
		return nil, fmt.Errorf("service %s not found in embedded proto", serviceName)
	}
	return sd, nil
}
