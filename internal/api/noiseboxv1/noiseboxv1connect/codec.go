package noiseboxv1connect

import "encoding/json"

// JSONCodec encodes plain Go messages as JSON. It registers under the "json"
// name so it replaces the protobuf JSON codec.
type JSONCodec struct{}

// Name returns the codec name.
func (JSONCodec) Name() string {
	return "json"
}

// Marshal encodes msg.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal decodes data into msg.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
