package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
)

// MentionsCollection holds mention documents. Its composite index is
// managed by the migrate command.
const MentionsCollection = "mentions"

const (
	authorizationsCollection = "authorizations"
	usersCollection          = "users"
	firstMessagesCollection  = "first_messages"
)

type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
	mention          *mentionRepository
	authorization    *authorizationRepository
	user             *userRepository
	firstMessage     *firstMessageRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prepends prefix and "_" to every collection name.
// Tests use it to isolate runs sharing one database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	f.mention = &mentionRepository{client: client, collection: f.collection(MentionsCollection)}
	f.authorization = &authorizationRepository{client: client, collection: f.collection(authorizationsCollection)}
	f.user = &userRepository{collection: f.collection(usersCollection)}
	f.firstMessage = &firstMessageRepository{collection: f.collection(firstMessagesCollection)}

	return f, nil
}

func (f *Firestore) collection(name string) *firestore.CollectionRef {
	if f.collectionPrefix != "" {
		return f.client.Collection(f.collectionPrefix + "_" + name)
	}
	return f.client.Collection(name)
}

func (f *Firestore) Mention() interfaces.MentionRepository {
	return f.mention
}

func (f *Firestore) Authorization() interfaces.AuthorizationRepository {
	return f.authorization
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) FirstMessage() interfaces.FirstMessageRepository {
	return f.firstMessage
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
