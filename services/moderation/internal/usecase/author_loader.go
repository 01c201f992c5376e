package usecase

import (
	"context"
	"time"

	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/repo"

	"github.com/graph-gophers/dataloader"
)

// AuthorLoader batches author lookups for one list view. Create one per
// request; results are cached for the loader's lifetime.
type AuthorLoader struct {
	loader *dataloader.Loader
}

func NewAuthorLoader(users repo.UserDirectory) *AuthorLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		names := make([]string, len(keys))
		for i, key := range keys {
			names[i] = key.String()
		}

		results := make([]*dataloader.Result, len(keys))
		found, err := users.FindUsersByNames(ctx, names)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		for i, name := range names {
			_, exists := found[name]
			results[i] = &dataloader.Result{Data: exists}
		}
		return results
	}

	return &AuthorLoader{
		loader: dataloader.NewBatchedLoader(batchFn,
			dataloader.WithWait(time.Millisecond),
			dataloader.WithBatchCapacity(100),
		),
	}
}

// DisplayNames maps each author name to itself, or to the deleted-user
// placeholder when the account no longer exists.
func (l *AuthorLoader) DisplayNames(ctx context.Context, authorUserNames []string) (map[string]string, error) {
	thunks := make(map[string]dataloader.Thunk, len(authorUserNames))
	for _, name := range authorUserNames {
		if name == "" {
			continue
		}
		if _, ok := thunks[name]; !ok {
			thunks[name] = l.loader.Load(ctx, dataloader.StringKey(name))
		}
	}

	display := make(map[string]string, len(thunks)+1)
	display[""] = entity.DeletedUserDisplayName
	for name, thunk := range thunks {
		data, err := thunk()
		if err != nil {
			return nil, err
		}
		if exists, _ := data.(bool); exists {
			display[name] = name
		} else {
			display[name] = entity.DeletedUserDisplayName
		}
	}
	return display, nil
}
