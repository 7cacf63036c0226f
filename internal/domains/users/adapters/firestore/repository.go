package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/Apurer/storefront-api/internal/domains/users/domain"
	"github.com/Apurer/storefront-api/internal/domains/users/ports"
	pfirestore "github.com/Apurer/storefront-api/internal/platform/firestore"
)

const (
	usersCollection     = "users"
	usernamesCollection = "usernames"
)

var _ ports.Repository = (*Repository)(nil)

// Repository stores users in Firestore. A usernames/{hash} document claims each username inside
// the creating transaction, which gives the unique index Firestore lacks.
type Repository struct {
	provider *pfirestore.Provider
}

func NewRepository(provider *pfirestore.Provider) *Repository {
	return &Repository{provider: provider}
}

type userDocument struct {
	ID           int64     `firestore:"user_id"`
	Username     string    `firestore:"username"`
	PasswordHash string    `firestore:"password_hash"`
	Email        string    `firestore:"email"`
	FullName     string    `firestore:"full_name"`
	Phone        string    `firestore:"phone"`
	Address      string    `firestore:"address"`
	Role         string    `firestore:"role"`
	CreatedAt    time.Time `firestore:"created_at"`
}

type usernameDocument struct {
	UserID int64 `firestore:"user_id"`
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	counter := pfirestore.NewCounter(client, usersCollection)
	claimRef := client.Collection(usernamesCollection).Doc(usernameKey(user.Username))

	var saved *domain.User
	err = pfirestore.RunTransaction(ctx, client, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(claimRef); err == nil {
			return ports.ErrDuplicateUsername
		} else if !pfirestore.IsNotFound(err) {
			return err
		}
		current, err := counter.Read(tx)
		if err != nil {
			return err
		}
		clone := *user
		clone.ID = current + 1
		if err := counter.Write(tx, clone.ID); err != nil {
			return err
		}
		if err := tx.Create(claimRef, usernameDocument{UserID: clone.ID}); err != nil {
			return err
		}
		if err := tx.Create(client.Collection(usersCollection).Doc(docID(clone.ID)), toDocument(&clone)); err != nil {
			return err
		}
		saved = &clone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := client.Collection(usersCollection).Doc(docID(id)).Get(ctx)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return nil, ports.ErrNotFound
		}
		return nil, pfirestore.WrapError("users.get", err)
	}
	return decodeUser(snapshot)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := client.Collection(usernamesCollection).Doc(usernameKey(strings.TrimSpace(username))).Get(ctx)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return nil, ports.ErrNotFound
		}
		return nil, pfirestore.WrapError("usernames.get", err)
	}
	var claim usernameDocument
	if err := snapshot.DataTo(&claim); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, claim.UserID)
}

func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	iter := client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()
	var users []*domain.User
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("users.list", err)
		}
		user, err := decodeUser(snapshot)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[int64]bool{}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, client.Collection(usersCollection).Doc(docID(id)))
	}
	snapshots, err := client.GetAll(ctx, refs)
	if err != nil {
		return nil, pfirestore.WrapError("users.get_all", err)
	}
	users := make([]*domain.User, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if !snapshot.Exists() {
			continue
		}
		user, err := decodeUser(snapshot)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *Repository) client(ctx context.Context) (*firestore.Client, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("firestore user repository not initialised")
	}
	return r.provider.Client(ctx)
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func usernameKey(username string) string {
	sum := sha256.Sum256([]byte(username))
	return hex.EncodeToString(sum[:])
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		FullName:     u.FullName,
		Phone:        u.Phone,
		Address:      u.Address,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func decodeUser(snapshot *firestore.DocumentSnapshot) (*domain.User, error) {
	var doc userDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           doc.ID,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Email:        doc.Email,
		FullName:     doc.FullName,
		Phone:        doc.Phone,
		Address:      doc.Address,
		Role:         domain.Role(doc.Role),
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}
