// Package fsstore keeps blueprints and contracts in Cloud Firestore, one
// document per record.
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mbolis/quick-contract/store"
)

type Store struct {
	client     *firestore.Client
	blueprints string
	contracts  string
	now        store.Clock
}

// Open connects to the Firestore database of projectID using Application
// Default Credentials (or the emulator named by FIRESTORE_EMULATOR_HOST).
func Open(ctx context.Context, projectID string) (*Store, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firestore: %w", err)
	}
	return New(client), nil
}

func New(client *firestore.Client) *Store {
	return &Store{
		client:     client,
		blueprints: "blueprints",
		contracts:  "contracts",
		now:        store.UTC,
	}
}

// WithCollections changes the collection names records are kept in.
func (s *Store) WithCollections(blueprints, contracts string) *Store {
	s.blueprints, s.contracts = blueprints, contracts
	return s
}

// WithClock replaces the clock used to stamp saved records.
func (s *Store) WithClock(now store.Clock) *Store {
	s.now = now
	return s
}

func (s *Store) Close() error {
	return s.client.Close()
}

// toDoc converts a record to the document map Firestore stores: the same
// shape as the JSON wire form, timestamps included as RFC 3339 strings.
func toDoc(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	err = json.Unmarshal(data, &doc)
	return doc, err
}

func fromDoc(snap *firestore.DocumentSnapshot, v any) error {
	data, err := json.Marshal(snap.Data())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("document %s: %w", snap.Ref.Path, err)
	}
	return nil
}

func notFound(err error, kind, id string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return err
}

func (s *Store) get(ctx context.Context, coll, kind, id string, v any) error {
	if id == "" {
		return fmt.Errorf("%s: %w", kind, store.ErrNotFound)
	}
	snap, err := s.client.Collection(coll).Doc(id).Get(ctx)
	if err != nil {
		return notFound(err, kind, id)
	}
	return fromDoc(snap, v)
}

func (s *Store) list(ctx context.Context, coll string, decode func(snap *firestore.DocumentSnapshot) error) error {
	iter := s.client.Collection(coll).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		if err := decode(snap); err != nil {
			return err
		}
	}
}

func (s *Store) delete(ctx context.Context, coll, kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s: %w", kind, store.ErrNotFound)
	}
	_, err := s.client.Collection(coll).Doc(id).Delete(ctx, firestore.Exists)
	return notFound(err, kind, id)
}

// existing decodes the document at ref into v when it exists, reading
// inside tx.
func existing(tx *firestore.Transaction, ref *firestore.DocumentRef, v any) (bool, error) {
	snap, err := tx.Get(ref)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, fromDoc(snap, v)
}
