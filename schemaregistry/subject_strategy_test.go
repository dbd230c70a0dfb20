package schemaregistry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
)

func TestTopicNameStrategy(t *testing.T) {
	s := schemaregistry.TopicNameStrategy{Topic: "acct"}
	assert.Equal(t, "acct-value", s.Value())
	assert.Equal(t, "acct-key", s.Key())
}

func TestTopicRecordNameStrategy(t *testing.T) {
	s := schemaregistry.TopicRecordNameStrategy{Topic: "acct", Record: "Created"}
	assert.Equal(t, "acct-Created-value", s.Value())
	assert.Equal(t, "acct-Created-key", s.Key())
}

func TestRecordNameStrategy(t *testing.T) {
	s := schemaregistry.RecordNameStrategy{Record: "Created"}
	assert.Equal(t, "Created-value", s.Value())
	assert.Equal(t, "Created-key", s.Key())
}

func TestSubjectNameStrategyLiteral_ignoresKeyValueSuffix(t *testing.T) {
	s := schemaregistry.SubjectNameStrategyLiteral{Subject: "custom-subject"}
	assert.Equal(t, "custom-subject", s.Value())
	assert.Equal(t, "custom-subject", s.Key())
}

func TestSubjectNameStrategy_keySuffix_invariant(t *testing.T) {
	strategies := []schemaregistry.SubjectNameStrategy{
		schemaregistry.TopicNameStrategy{Topic: "t"},
		schemaregistry.RecordNameStrategy{Record: "r"},
		schemaregistry.TopicRecordNameStrategy{Topic: "t", Record: "r"},
	}
	for _, s := range strategies {
		assert.True(t, len(s.Key()) >= 4 && s.Key()[len(s.Key())-4:] == "-key")
	}

	literal := schemaregistry.SubjectNameStrategyLiteral{Subject: "s"}
	assert.Equal(t, "s", literal.Key())
}
