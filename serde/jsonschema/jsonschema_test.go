package jsonschema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
)

type fakeClient struct {
	bySubject   map[string]schemaregistry.Schema
	idBySubject map[string]uint32
	byID        map[uint32]schemaregistry.Schema
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		bySubject:   make(map[string]schemaregistry.Schema),
		idBySubject: make(map[string]uint32),
		byID:        make(map[uint32]schemaregistry.Schema),
	}
}

func (f *fakeClient) register(subject string, id uint32, schema schemaregistry.Schema) {
	f.bySubject[subject] = schema
	f.idBySubject[subject] = id
	f.byID[id] = schema
}

func (f *fakeClient) GetSchemaByID(ctx context.Context, id uint32) (schemaregistry.Schema, error) {
	s, ok := f.byID[id]
	if !ok {
		return schemaregistry.Schema{}, schemaregistry.ErrSchemaNotFound
	}
	return s, nil
}

func (f *fakeClient) GetSchemaBySubject(ctx context.Context, subject string, version schemaregistry.Version) (schemaregistry.Schema, error) {
	s, ok := f.bySubject[subject]
	if !ok {
		return schemaregistry.Schema{}, schemaregistry.ErrSchemaNotFound
	}
	return s, nil
}

func (f *fakeClient) GetSubjectVersion(ctx context.Context, subject string, version schemaregistry.Version) (schemaregistry.Subject, error) {
	s, ok := f.bySubject[subject]
	if !ok {
		return schemaregistry.Subject{}, schemaregistry.ErrSchemaNotFound
	}
	return schemaregistry.Subject{ID: f.idBySubject[subject], Subject: subject, Schema: s.Schema}, nil
}

func (f *fakeClient) RegisterSchema(ctx context.Context, subject string, u schemaregistry.UnregisteredSchema) (uint32, schemaregistry.Schema, error) {
	return 0, schemaregistry.Schema{}, nil
}

func (f *fakeClient) IsRegistered(ctx context.Context, subject string, u schemaregistry.UnregisteredSchema) (uint32, schemaregistry.Schema, error) {
	return 0, schemaregistry.Schema{}, nil
}

type person struct {
	Age int `json:"age"`
}

const personSchema = `{"type":"object","properties":{"age":{"type":"integer"}}}`

func TestCodec_SerializeDeserializeRoundTrip(t *testing.T) {
	client := newFakeClient()
	client.register("person-value", 1, schemaregistry.Schema{Schema: personSchema})

	codec := NewCodec[person](client)

	framed, err := codec.Serialize(context.Background(), "person-value", person{Age: 30})
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), framed[0])

	got, err := codec.Deserialize(context.Background(), framed)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Age)
}

func TestCodec_Serialize_validationFailure(t *testing.T) {
	client := newFakeClient()
	client.register("person-value", 1, schemaregistry.Schema{Schema: personSchema})

	codec := NewCodec[map[string]any](client)

	_, err := codec.Serialize(context.Background(), "person-value", map[string]any{"age": "twelve"})
	require.Error(t, err)

	var validationErr *SchemaValidationError
	require.ErrorAs(t, err, &validationErr)
	require.NotEmpty(t, validationErr.Failures)
	assert.Equal(t, "string", validationErr.Failures[0].Received)
	assert.Equal(t, "integer", validationErr.Failures[0].Expected)
}

func TestCodec_Deserialize_badFraming(t *testing.T) {
	client := newFakeClient()
	codec := NewCodec[person](client)

	_, err := codec.Deserialize(context.Background(), []byte{0x01, 0x00})
	assert.Error(t, err)
}

func TestCodec_Deserialize_withoutValidation(t *testing.T) {
	client := newFakeClient()
	client.register("person-value", 1, schemaregistry.Schema{Schema: personSchema})

	codec := NewCodec[person](client, WithoutValidateOnDecode())

	framed, err := codec.Serialize(context.Background(), "person-value", person{Age: 7})
	require.NoError(t, err)

	got, err := codec.Deserialize(context.Background(), framed)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Age)
}
