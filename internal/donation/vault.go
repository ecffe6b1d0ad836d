package donation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mesikahq/gestion-salud/internal/encryption"
)

// Vault stores the binary supporting documents (notarised scans) outside
// the relational store. The returned reference goes into the opposition's
// documento_ref column.
type Vault interface {
	Put(ctx context.Context, filename string, data []byte) (string, error)
	Get(ctx context.Context, ref string) ([]byte, string, error)
	Remove(ctx context.Context, ref string) error
}

type vaultDocument struct {
	Ref      string    `bson:"ref"`
	Filename string    `bson:"filename"`
	Payload  string    `bson:"payload"`
	StoredAt time.Time `bson:"stored_at"`
}

type mongoVault struct {
	coll   *mongo.Collection
	crypto encryption.Service
}

// NewMongoVault returns a Vault over the given collection. Payloads are
// sealed with the encryption service before leaving the process.
func NewMongoVault(client *mongo.Client, database, collection string, crypto encryption.Service) Vault {
	return &mongoVault{
		coll:   client.Database(database).Collection(collection),
		crypto: crypto,
	}
}

func (v *mongoVault) Put(ctx context.Context, filename string, data []byte) (string, error) {
	sealed, err := v.crypto.Encrypt(data)
	if err != nil {
		return "", err
	}

	ref := uuid.New().String()
	_, err = v.coll.InsertOne(ctx, vaultDocument{
		Ref:      ref,
		Filename: filename,
		Payload:  sealed,
		StoredAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store supporting document: %w", err)
	}
	return ref, nil
}

func (v *mongoVault) Get(ctx context.Context, ref string) ([]byte, string, error) {
	var doc vaultDocument
	err := v.coll.FindOne(ctx, bson.M{"ref": ref}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrNoDocument
		}
		return nil, "", fmt.Errorf("failed to read supporting document: %w", err)
	}

	data, err := v.crypto.Decrypt(doc.Payload)
	if err != nil {
		return nil, "", err
	}
	return data, doc.Filename, nil
}

func (v *mongoVault) Remove(ctx context.Context, ref string) error {
	res, err := v.coll.DeleteOne(ctx, bson.M{"ref": ref})
	if err != nil {
		return fmt.Errorf("failed to remove supporting document: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
