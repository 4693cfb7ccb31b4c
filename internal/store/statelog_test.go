package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dayrize/statelog/internal/domain"
	"github.com/dayrize/statelog/internal/slerrors"
)

func TestStateLogStore_CreateAndListForObject(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store, _ := PrepareDBForUnitTests(t)

	article := domain.ObjectRef{Kind: "Article", PK: "1"}
	other := domain.ObjectRef{Kind: "Article", PK: "2"}
	sameKeyOtherKind := domain.ObjectRef{Kind: "Report", PK: "1"}

	entries := []domain.LogEntry{
		{State: "submitted", Transition: "submit", ContentObject: article, Timestamp: time.Now().UTC()},
		{State: "published", Transition: "publish", By: &domain.Actor{ID: "u1", Name: "jacob"}, ContentObject: article, Timestamp: time.Now().UTC()},
		{State: "submitted", Transition: "submit", ContentObject: other, Timestamp: time.Now().UTC()},
		{State: "filed", Transition: "file", ContentObject: sameKeyOtherKind, Timestamp: time.Now().UTC()},
	}
	for i := range entries {
		require.NoError(store.StateLog().Create(ctx, &entries[i]))
	}

	got, err := store.StateLog().ListForObject(ctx, article)
	require.NoError(err)
	require.Len(got, 2)
	// Insertion order, oldest first.
	require.Equal("submit", got[0].Transition)
	require.Equal("publish", got[1].Transition)
	for _, entry := range got {
		require.Equal(article, entry.ContentObject)
	}

	// A matching primary key on a different kind does not leak in.
	reports, err := store.StateLog().ListForObject(ctx, sameKeyOtherKind)
	require.NoError(err)
	require.Len(reports, 1)
	require.Equal("file", reports[0].Transition)
}

func TestStateLogStore_ActorRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store, _ := PrepareDBForUnitTests(t)

	ref := domain.ObjectRef{Kind: "Article", PK: "9"}
	by := &domain.Actor{ID: "u42", Name: "jacob"}
	require.NoError(store.StateLog().Create(ctx, &domain.LogEntry{
		State: "submitted", Transition: "submit", By: by, ContentObject: ref, Timestamp: time.Now().UTC(),
	}))
	require.NoError(store.StateLog().Create(ctx, &domain.LogEntry{
		State: "published", Transition: "publish", ContentObject: ref, Timestamp: time.Now().UTC(),
	}))

	got, err := store.StateLog().ListForObject(ctx, ref)
	require.NoError(err)
	require.Len(got, 2)
	require.NotNil(got[0].By)
	require.Equal(*by, *got[0].By)
	require.Nil(got[1].By)
}

func TestStateLogStore_CreateNilEntry(t *testing.T) {
	store, _ := PrepareDBForUnitTests(t)
	err := store.StateLog().Create(context.Background(), nil)
	require.ErrorIs(t, err, slerrors.ErrEntryIsNil)
}

func TestStateLogStore_ListForObjectEmpty(t *testing.T) {
	store, _ := PrepareDBForUnitTests(t)
	got, err := store.StateLog().ListForObject(context.Background(), domain.ObjectRef{Kind: "Article", PK: "404"})
	require.NoError(t, err)
	require.Empty(t, got)
}
