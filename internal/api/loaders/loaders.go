package loaders

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders contains the request-scoped dataloaders
type Loaders struct {
	UserLoader *dataloader.Loader[string, *entities.User]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(userRepo repositories.UserRepository) *Loaders {
	return &Loaders{
		UserLoader: dataloader.NewBatchedLoader(
			func(ctx context.Context, keys []string) []*dataloader.Result[*entities.User] {
				results := make([]*dataloader.Result[*entities.User], len(keys))
				users, err := userRepo.GetByIDs(ctx, keys)

				userMap := make(map[string]*entities.User, len(users))
				if err == nil {
					for _, u := range users {
						userMap[u.ID] = u
					}
				}

				for i, key := range keys {
					if err != nil {
						results[i] = &dataloader.Result[*entities.User]{Error: err}
					} else if u, ok := userMap[key]; ok {
						results[i] = &dataloader.Result[*entities.User]{Data: u}
					} else {
						results[i] = &dataloader.Result[*entities.User]{Error: fmt.Errorf("user %s not found", key)}
					}
				}
				return results
			},
			dataloader.WithWait[string, *entities.User](2*time.Millisecond),
		),
	}
}

// AttachAuthors fills in the author of each review in one batched lookup.
// Reviews whose author cannot be loaded keep a nil Author. A nil receiver does nothing.
func (l *Loaders) AttachAuthors(ctx context.Context, reviews []*entities.Review) {
	if l == nil || len(reviews) == 0 {
		return
	}

	keys := make([]string, len(reviews))
	for i, r := range reviews {
		keys[i] = r.CustomerID
	}

	users, errs := l.UserLoader.LoadMany(ctx, keys)()
	for i, r := range reviews {
		if i < len(errs) && errs[i] != nil {
			continue
		}
		if i < len(users) && users[i] != nil {
			r.Author = &entities.ReviewAuthor{ID: users[i].ID, Name: users[i].Name}
		}
	}
}

// For returns the loaders for a given context, or nil when none are attached
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// Middleware attaches a fresh set of loaders to every request
func Middleware(userRepo repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(userRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
