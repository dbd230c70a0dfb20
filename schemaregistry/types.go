package schemaregistry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FaveroFerreira/schema-registry-converter/wireformat"
)

// Extracted is the parsed view over a framed payload: the schema id the
// payload was encoded against, and the payload bytes that follow it.
// Re-exported from wireformat so callers working only against this
// package's Client don't also need to import wireformat directly.
type Extracted = wireformat.Extracted

// SchemaType identifies the schema language a Schema is written in. The
// zero value is SchemaTypeAvro, matching the registry's own default when
// a response omits the field.
type SchemaType int

const (
	SchemaTypeAvro SchemaType = iota
	SchemaTypeProtobuf
	SchemaTypeJSON
)

// String renders the SCREAMING_SNAKE_CASE wire form used by the registry.
func (t SchemaType) String() string {
	switch t {
	case SchemaTypeProtobuf:
		return "PROTOBUF"
	case SchemaTypeJSON:
		return "JSON"
	default:
		return "AVRO"
	}
}

// MarshalJSON renders t using its wire form.
func (t SchemaType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts the registry's SCREAMING_SNAKE_CASE form
// case-insensitively, and treats an empty string as Avro.
func (t *SchemaType) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseSchemaType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseSchemaType parses the registry's wire form for a schema type,
// case-insensitively. An empty string defaults to Avro.
func ParseSchemaType(s string) (SchemaType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AVRO":
		return SchemaTypeAvro, nil
	case "PROTOBUF":
		return SchemaTypeProtobuf, nil
	case "JSON":
		return SchemaTypeJSON, nil
	default:
		return 0, fmt.Errorf("schemaregistry: invalid schema type %q", s)
	}
}

// SchemaReference is a named link from one schema source to another by
// (subject, version), used by Avro and Protobuf to compose types across
// subjects.
type SchemaReference struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Version uint32 `json:"version"`
}

// Schema is an immutable schema as returned by the registry: a source
// document plus its declared references. Values returned to callers are
// independent copies — Clone returns a deep copy safe to mutate.
type Schema struct {
	SchemaType SchemaType        `json:"schemaType"`
	Schema     string            `json:"schema"`
	References []SchemaReference `json:"references,omitempty"`
}

// Clone returns an independent copy of s.
func (s Schema) Clone() Schema {
	out := s
	if s.References != nil {
		out.References = append([]SchemaReference(nil), s.References...)
	}
	return out
}

// Subject is an immutable snapshot of one registered version of a
// subject.
type Subject struct {
	ID         uint32            `json:"id"`
	Subject    string            `json:"subject"`
	Version    uint32            `json:"version"`
	SchemaType SchemaType        `json:"schemaType"`
	Schema     string            `json:"schema"`
	References []SchemaReference `json:"references,omitempty"`
}

// Schema projects the fetched Subject down to its Schema view.
func (s Subject) Schema() Schema {
	return Schema{
		SchemaType: s.SchemaType,
		Schema:     s.Schema,
		References: append([]SchemaReference(nil), s.References...),
	}
}

// UnregisteredSchema is built by callers prior to registration.
type UnregisteredSchema struct {
	Schema     string            `json:"schema"`
	SchemaType SchemaType        `json:"schemaType"`
	References []SchemaReference `json:"references,omitempty"`
}

// NewUnregisteredSchema starts a builder-style construction from the raw
// schema source, defaulting to Avro.
func NewUnregisteredSchema(schema string) UnregisteredSchema {
	return UnregisteredSchema{Schema: schema, SchemaType: SchemaTypeAvro}
}

// WithType overrides the schema type.
func (u UnregisteredSchema) WithType(t SchemaType) UnregisteredSchema {
	u.SchemaType = t
	return u
}

// WithReferences attaches schema references.
func (u UnregisteredSchema) WithReferences(refs ...SchemaReference) UnregisteredSchema {
	u.References = refs
	return u
}

// MarshalJSON omits References entirely when empty, per the registry's
// wire contract for the register request body.
func (u UnregisteredSchema) MarshalJSON() ([]byte, error) {
	type wire struct {
		Schema     string            `json:"schema"`
		SchemaType SchemaType        `json:"schemaType"`
		References []SchemaReference `json:"references,omitempty"`
	}
	return jsonMarshal(wire{Schema: u.Schema, SchemaType: u.SchemaType, References: u.References})
}

// Version selects either the latest registered version of a subject or a
// specific 1-based version number.
type Version struct {
	latest bool
	number uint32
}

// Latest selects the most recently registered version.
func Latest() Version { return Version{latest: true} }

// VersionNumber selects a specific, 1-based version.
func VersionNumber(n uint32) Version { return Version{number: n} }

// String renders "latest" or the decimal version number.
func (v Version) String() string {
	if v.latest {
		return "latest"
	}
	return strconv.FormatUint(uint64(v.number), 10)
}

// AuthKind distinguishes the two supported authentication schemes.
type AuthKind int

const (
	AuthNone AuthKind = iota
	AuthBasic
	AuthBearer
)

// Authentication holds registry credentials. Never logged in the clear —
// callers obtain a redacted form via String().
type Authentication struct {
	kind     AuthKind
	username string
	password string
	token    string
}

// BasicAuth builds HTTP Basic credentials.
func BasicAuth(username, password string) Authentication {
	return Authentication{kind: AuthBasic, username: username, password: password}
}

// BearerAuth builds Bearer token credentials.
func BearerAuth(token string) Authentication {
	return Authentication{kind: AuthBearer, token: token}
}

// String returns a redacted representation safe to log.
func (a Authentication) String() string {
	switch a.kind {
	case AuthBasic:
		return "Basic(user=" + a.username + ", password=<redacted>)"
	case AuthBearer:
		return "Bearer(<redacted>)"
	default:
		return "None"
	}
}
