package protobuf

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
)

const rootFilename = "__root__.proto"

// collectFiles walks root's References (imports, in .proto terms) and
// returns every file source keyed by the name it's imported under, with
// root itself keyed under rootFilename. Like the Avro resolver, a schema
// reference graph is a DAG: the same import may be reachable through more
// than one path, which collectFiles treats as sharing, not a cycle.
func collectFiles(ctx context.Context, client schemaregistry.Client, root schemaregistry.Schema, rootKey string) (map[string]string, error) {
	onStack := map[string]bool{rootKey: true}
	done := map[string]bool{}
	files := map[string]string{rootFilename: root.Schema}

	var visit func(schema schemaregistry.Schema, key string) error
	visit = func(schema schemaregistry.Schema, key string) error {
		for _, ref := range schema.References {
			if onStack[ref.Name] {
				return &CycleError{Name: ref.Name}
			}
			if done[ref.Name] {
				continue
			}

			refSchema, err := client.GetSchemaBySubject(ctx, ref.Subject, schemaregistry.VersionNumber(ref.Version))
			if err != nil {
				return fmt.Errorf("protobuf: failed to resolve import %s (%s): %w", ref.Name, ref.Subject, err)
			}

			onStack[ref.Name] = true
			files[ref.Name] = refSchema.Schema
			if err := visit(refSchema, ref.Name); err != nil {
				return err
			}
			onStack[ref.Name] = false
			done[ref.Name] = true
		}
		return nil
	}

	if err := visit(root, rootKey); err != nil {
		return nil, err
	}
	return files, nil
}

// parseFileDescriptor compiles root and every schema it (transitively)
// imports into a single resolved *desc.FileDescriptor for root.
func parseFileDescriptor(ctx context.Context, client schemaregistry.Client, root schemaregistry.Schema, rootKey string) (*desc.FileDescriptor, error) {
	files, err := collectFiles(ctx, client, root, rootKey)
	if err != nil {
		return nil, err
	}

	parser := protoparse.Parser{
		Accessor:              protoparse.FileContentsFromMap(files),
		IncludeSourceCodeInfo: false,
	}

	descriptors, err := parser.ParseFiles(rootFilename)
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	if len(descriptors) == 0 {
		return nil, &ParseError{Cause: fmt.Errorf("no file descriptors produced for %s", rootFilename)}
	}
	return descriptors[0], nil
}

// resolveMessageByIndexPath walks a Confluent message-index path down
// from a file's top-level messages into nested messages.
func resolveMessageByIndexPath(file *desc.FileDescriptor, path []int) (*desc.MessageDescriptor, error) {
	if len(path) == 0 {
		return nil, &DescriptorNotFoundError{Path: path}
	}

	messages := file.GetMessageTypes()
	if path[0] < 0 || path[0] >= len(messages) {
		return nil, &DescriptorNotFoundError{Path: path}
	}
	msg := messages[path[0]]

	for _, idx := range path[1:] {
		nested := msg.GetNestedMessageTypes()
		if idx < 0 || idx >= len(nested) {
			return nil, &DescriptorNotFoundError{Path: path}
		}
		msg = nested[idx]
	}
	return msg, nil
}

// messageIndexPath computes the Confluent message-index path for a
// message descriptor: its own index among its parent's messages, and so
// on up to the file, in root-to-leaf order.
func messageIndexPath(descriptor protoreflect.Descriptor) []int {
	index := descriptor.Index()
	switch parent := descriptor.Parent().(type) {
	case protoreflect.FileDescriptor:
		return []int{index}
	default:
		return append(messageIndexPath(parent), index)
	}
}
