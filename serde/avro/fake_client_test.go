package avro

import (
	"context"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
)

// fakeClient is an in-memory schemaregistry.Client used to test
// reference resolution without an HTTP server — the registry client
// itself is polymorphic per §9's design notes, and codecs are written
// against the Client interface specifically so a fake like this can
// stand in.
type fakeClient struct {
	bySubject   map[string]schemaregistry.Schema
	idBySubject map[string]uint32
	byID        map[uint32]schemaregistry.Schema
	nextID      uint32
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
	return schemaregistry.Subject{
		ID: f.idBySubject[subject], Subject: subject,
		SchemaType: s.SchemaType, Schema: s.Schema, References: s.References,
	}, nil
}

func (f *fakeClient) RegisterSchema(ctx context.Context, subject string, unregistered schemaregistry.UnregisteredSchema) (uint32, schemaregistry.Schema, error) {
	f.nextID++
	schema := schemaregistry.Schema{SchemaType: unregistered.SchemaType, Schema: unregistered.Schema, References: unregistered.References}
	f.register(subject, f.nextID, schema)
	return f.nextID, schema, nil
}

func (f *fakeClient) IsRegistered(ctx context.Context, subject string, unregistered schemaregistry.UnregisteredSchema) (uint32, schemaregistry.Schema, error) {
	return f.RegisterSchema(ctx, subject, unregistered)
}
