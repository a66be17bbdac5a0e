package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype clients must request.
const CodecName = "json"

// jsonCodec 让管理接口不依赖 protoc 生成代码
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
