package schemaregistry

// SubjectNameStrategy maps a (topic, record-type) pair to the registry
// subject used to look up or register a schema for the key or value side
// of a record. Case-sensitive; no normalization is applied.
type SubjectNameStrategy interface {
	Key() string
	Value() string
}

// TopicNameStrategy derives the subject from the topic name alone:
// "{topic}-key" / "{topic}-value". This is the registry's default
// strategy.
type TopicNameStrategy struct {
	Topic string
}

func (s TopicNameStrategy) Key() string   { return s.Topic + "-key" }
func (s TopicNameStrategy) Value() string { return s.Topic + "-value" }

// RecordNameStrategy derives the subject from the record type name
// alone, ignoring the topic: "{record}-key" / "{record}-value".
type RecordNameStrategy struct {
	Record string
}

func (s RecordNameStrategy) Key() string   { return s.Record + "-key" }
func (s RecordNameStrategy) Value() string { return s.Record + "-value" }

// TopicRecordNameStrategy combines both the topic and the record type:
// "{topic}-{record}-key" / "{topic}-{record}-value".
type TopicRecordNameStrategy struct {
	Topic  string
	Record string
}

func (s TopicRecordNameStrategy) Key() string {
	return s.Topic + "-" + s.Record + "-key"
}

func (s TopicRecordNameStrategy) Value() string {
	return s.Topic + "-" + s.Record + "-value"
}

// SubjectNameStrategyLiteral uses a caller-supplied subject verbatim for
// both sides.
type SubjectNameStrategyLiteral struct {
	Subject string
}

func (s SubjectNameStrategyLiteral) Key() string   { return s.Subject }
func (s SubjectNameStrategyLiteral) Value() string { return s.Subject }
