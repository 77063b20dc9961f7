package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/account-service/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionCounters = "counters"
)

// AccountRepository stores accounts in MongoDB. Ids are integers handed out
// by a counter document so they stay compatible with the relational store.
type AccountRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		users:    db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
	}
}

type accountDoc struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash,omitempty"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
}

func newAccountDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt,
	}
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// EnsureIndexes creates the unique indexes on username and email.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.users.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *AccountRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionUsers},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	created := *a
	created.ID = id
	if created.Role == "" {
		created.Role = domain.RoleUser
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	// Mongo keeps millisecond precision.
	created.CreatedAt = created.CreatedAt.Truncate(time.Millisecond)

	if _, err := r.users.InsertOne(ctx, newAccountDoc(&created)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.WithCause(domain.ErrIdentityInUse, err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.Account, error) {
	return r.findOne(ctx, usernameOrEmailFilter(username, email), options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func usernameOrEmailFilter(username, email string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.users.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// updateDoc builds the $set document for the non-empty fields of f.
func updateDoc(f domain.AccountUpdate) bson.M {
	set := bson.M{}
	if f.Username != "" {
		set["username"] = f.Username
	}
	if f.Email != "" {
		set["email"] = f.Email
	}
	if f.PasswordHash != "" {
		set["password_hash"] = f.PasswordHash
	}
	return bson.M{"$set": set}
}

// Update returns the number of documents matched by id, so a write that
// changes nothing still counts.
func (r *AccountRepository) Update(ctx context.Context, id int64, f domain.AccountUpdate) (int64, error) {
	if f.Empty() {
		return 0, domain.ErrNoFieldsToUpdate
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.users.UpdateByID(ctx, id, updateDoc(f))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, domain.WithCause(domain.ErrIdentityInUse, err)
		}
		return 0, fmt.Errorf("update user: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount, nil
}

// List returns all accounts in id order with the password hash projected out.
func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"password_hash": 0})

	cursor, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []accountDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.users.Database().Client().Ping(ctx, nil)
}
