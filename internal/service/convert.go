package service

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/types/descriptorpb"
)

// populateMessage fills msg from a name → value map. Names the descriptor
// does not know are ignored, so the map can carry fields newer than the
// peer's contract.
func populateMessage(msg *dynamic.Message, fields map[string]interface{}) error {
	for name, val := range fields {
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			continue
		}

		v, err := toProtoValue(val, fd)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		if v != nil {
			msg.SetField(fd, v)
		}
	}
	return nil
}

func toProtoValue(val interface{}, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.IsRepeated() {
		var slice []interface{}
		switch items := val.(type) {
		case []string:
			for _, s := range items {
				slice = append(slice, s)
			}
		case []interface{}:
			for _, item := range items {
				v, err := toProtoSingleValue(item, fd)
				if err != nil {
					return nil, err
				}
				slice = append(slice, v)
			}
		default:
			return nil, fmt.Errorf("expected a slice for repeated field, got %T", val)
		}
		return slice, nil
	}

	return toProtoSingleValue(val, fd)
}

// toProtoSingleValue narrows a Go value to the exact wire type the field
// expects. dynamic.Message rejects mismatched integer widths, so the
// switch converts explicitly instead of relying on reflection.
func toProtoSingleValue(val interface{}, fd *desc.FieldDescriptor) (interface{}, error) {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		if n, ok := val.(int); ok {
			return int32(n), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		if n, ok := val.(int); ok {
			return int64(n), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		if b, ok := val.(bool); ok {
			return b, nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		if s, ok := val.(string); ok {
			return s, nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		if b, ok := val.([]byte); ok {
			return b, nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		if fields, ok := val.(map[string]interface{}); ok {
			nested := dynamic.NewMessage(fd.GetMessageType())
			if err := populateMessage(nested, fields); err != nil {
				return nil, err
			}
			return nested, nil
		}
	}
	return nil, fmt.Errorf("unsupported conversion from %T to proto type %v", val, fd.GetType())
}

// messageFields flattens a dynamic message into a name → value map with
// Go-native scalars, nested messages becoming nested maps.
func messageFields(msg *dynamic.Message) map[string]interface{} {
	fields := make(map[string]interface{})
	for _, fd := range msg.GetMessageDescriptor().GetFields() {
		fields[fd.GetName()] = fromProtoValue(msg.GetField(fd), fd)
	}
	return fields
}

func fromProtoValue(val interface{}, fd *desc.FieldDescriptor) interface{} {
	if fd.IsRepeated() {
		slice, ok := val.([]interface{})
		if !ok {
			return nil
		}
		out := make([]interface{}, 0, len(slice))
		for _, v := range slice {
			out = append(out, fromProtoSingleValue(v))
		}
		return out
	}
	return fromProtoSingleValue(val)
}

func fromProtoSingleValue(val interface{}) interface{} {
	switch v := val.(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case *dynamic.Message:
		return messageFields(v)
	default:
		// string, bool and []byte pass through unchanged.
		return val
	}
}

// stringField reads a string field, tolerating absence so requests from
// older contract revisions still decode.
func stringField(msg *dynamic.Message, name string) string {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return ""
	}
	if s, ok := msg.GetField(fd).(string); ok {
		return s
	}
	return ""
}

// encodeResult fills a CanonicalizeResponse message.
func encodeResult(msg *dynamic.Message, res Result) error {
	diags := make([]interface{}, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diags = append(diags, map[string]interface{}{
			"code":    d.Code,
			"line":    d.Line,
			"column":  d.Column,
			"message": d.Message,
		})
	}
	return populateMessage(msg, map[string]interface{}{
		"canonical":   res.Canonical,
		"diagnostics": diags,
	})
}

// decodeResult reads a CanonicalizeResponse message.
func decodeResult(msg *dynamic.Message) Result {
	fields := messageFields(msg)

	var res Result
	if items, ok := fields["canonical"].([]interface{}); ok {
		for _, item := range items {
			if s, ok := item.(string); ok {
				res.Canonical = append(res.Canonical, s)
			}
		}
	}
	if items, ok := fields["diagnostics"].([]interface{}); ok {
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			var d Diagnostic
			if s, ok := m["code"].(string); ok {
				d.Code = s
			}
			if n, ok := m["line"].(int); ok {
				d.Line = n
			}
			if n, ok := m["column"].(int); ok {
				d.Column = n
			}
			if s, ok := m["message"].(string); ok {
				d.Message = s
			}
			res.Diagnostics = append(res.Diagnostics, d)
		}
	}
	return res
}

// encodeCheck fills a CheckResponse message.
func encodeCheck(msg *dynamic.Message, res Result) error {
	return populateMessage(msg, map[string]interface{}{
		"ok":          len(res.Diagnostics) == 0,
		"diagnostics": len(res.Diagnostics),
	})
}

// decodeCheck reads a CheckResponse message.
func decodeCheck(msg *dynamic.Message) CheckStatus {
	fields := messageFields(msg)

	var st CheckStatus
	if b, ok := fields["ok"].(bool); ok {
		st.OK = b
	}
	if n, ok := fields["diagnostics"].(int); ok {
		st.Diagnostics = n
	}
	return st
}
