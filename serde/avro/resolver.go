package avro

import (
	"context"
	"fmt"
	"strconv"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
)

// resolveChain walks root's References depth-first (children before
// parents — "post-order") and returns every schema encountered, with
// root appended last. The returned slice is the ordered list §4.6
// requires to hand to the Avro parser: every earlier entry is a
// "schemata" type definition, and the last entry is the writer schema.
//
// References form a DAG, not a tree: the same (subject, version) may
// legitimately be reached twice through different parents (a diamond
// dependency) without that being a cycle. onStack tracks the current
// DFS path (popped on return) to catch genuine cycles; done tracks
// nodes fully resolved so a diamond is fetched and appended only once.
func resolveChain(ctx context.Context, client schemaregistry.Client, root schemaregistry.Schema, rootKey string) ([]schemaregistry.Schema, error) {
	onStack := make(map[string]bool)
	done := make(map[string]bool)
	var ordered []schemaregistry.Schema

	var visit func(schema schemaregistry.Schema, key string) error
	visit = func(schema schemaregistry.Schema, key string) error {
		if onStack[key] {
			return &CycleError{Key: key}
		}
		if done[key] {
			return nil
		}
		onStack[key] = true

		for _, ref := range schema.References {
			refKey := ref.Subject + "@" + strconv.FormatUint(uint64(ref.Version), 10)
			if done[refKey] {
				continue
			}
			refSchema, err := client.GetSchemaBySubject(ctx, ref.Subject, schemaregistry.VersionNumber(ref.Version))
			if err != nil {
				return fmt.Errorf("avro: failed to resolve reference %s (%s): %w", ref.Name, refKey, err)
			}
			if err := visit(refSchema, refKey); err != nil {
				return err
			}
		}

		onStack[key] = false
		done[key] = true
		ordered = append(ordered, schema)
		return nil
	}

	if err := visit(root, rootKey); err != nil {
		return nil, err
	}
	if len(ordered) == 0 {
		return nil, ErrSchemaNotFound
	}
	return ordered, nil
}
