package schemaregistry

import jsoniter "github.com/json-iterator/go"

// json is the jsoniter configuration used for every registry request and
// response body, matching the convention set by hamba/avro/v2's own
// registry client.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func jsonMarshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
