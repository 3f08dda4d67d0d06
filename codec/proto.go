package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Proto serializes documents as google.protobuf.Struct messages. The
// zero value is ready to use.
//
// Struct carries exactly the JSON data model (all numbers become
// float64, like encoding/json), so any document the JSON codec accepts
// round-trips here too. Useful when the storage root is read by
// protobuf tooling or shipped over gRPC.
type Proto struct{}

var _ Codec = Proto{}

func (Proto) Encode(doc Document) ([]byte, error) {
	st, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

func (Proto) Decode(b []byte) (Document, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	return st.AsMap(), nil
}
