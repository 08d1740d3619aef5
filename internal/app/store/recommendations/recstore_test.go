package recstore_test

import (
	"errors"
	"testing"

	recstore "github.com/reelhub/reelhub/internal/app/store/recommendations"
	"github.com/reelhub/reelhub/internal/domain/apperr"
	"github.com/reelhub/reelhub/internal/domain/models"
	"github.com/reelhub/reelhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var snapshot = models.MovieSnapshot{
	Title:  "Batman Begins",
	Year:   "2005",
	Genre:  "Action, Crime, Drama",
	Rating: "8.2",
	Type:   "movie",
}

func TestStore_Recommend_CreatesThenGrows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := recstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	if err := store.Recommend(ctx, groupID, snapshot, "tt0372784", alice); err != nil {
		t.Fatalf("first Recommend failed: %v", err)
	}

	recs, err := store.ListByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Movie.Title != "Batman Begins" {
		t.Errorf("snapshot not stored: %+v", recs[0].Movie)
	}
	if recs[0].RecommendedAt.IsZero() {
		t.Error("expected recommended_at to be set")
	}

	// A second recommender grows the set on the same document.
	if err := store.Recommend(ctx, groupID, snapshot, "tt0372784", bob); err != nil {
		t.Fatalf("second Recommend failed: %v", err)
	}

	recs, _ = store.ListByGroup(ctx, groupID)
	if len(recs) != 1 {
		t.Fatalf("second recommend created a duplicate document: %d", len(recs))
	}
	if len(recs[0].RecommendedBy) != 2 {
		t.Errorf("recommended_by = %v, want both users", recs[0].RecommendedBy)
	}
}

func TestStore_Recommend_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := recstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	alice := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		if err := store.Recommend(ctx, groupID, snapshot, "tt0372784", alice); err != nil {
			t.Fatalf("Recommend %d failed: %v", i, err)
		}
	}

	recs, _ := store.ListByGroup(ctx, groupID)
	if len(recs) != 1 || len(recs[0].RecommendedBy) != 1 {
		t.Errorf("repeat recommends must not grow the set: %+v", recs)
	}
}

func TestStore_Unrecommend_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := recstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	if err := store.Recommend(ctx, groupID, snapshot, "tt0372784", alice); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if err := store.Recommend(ctx, groupID, snapshot, "tt0372784", bob); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	// Removing one of two recommenders shrinks the set but keeps the doc.
	if err := store.Unrecommend(ctx, groupID, "tt0372784", bob); err != nil {
		t.Fatalf("Unrecommend failed: %v", err)
	}
	recs, _ := store.ListByGroup(ctx, groupID)
	if len(recs) != 1 {
		t.Fatalf("document deleted while recommenders remain")
	}
	if len(recs[0].RecommendedBy) != 1 || recs[0].RecommendedBy[0] != alice {
		t.Errorf("recommended_by = %v, want [%v]", recs[0].RecommendedBy, alice)
	}

	// Removing the last recommender deletes the document entirely.
	if err := store.Unrecommend(ctx, groupID, "tt0372784", alice); err != nil {
		t.Fatalf("Unrecommend failed: %v", err)
	}
	recs, _ = store.ListByGroup(ctx, groupID)
	if len(recs) != 0 {
		t.Errorf("expected empty recommendation to be deleted, got %+v", recs)
	}
}

func TestStore_Unrecommend_UnknownMovie(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := recstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Unrecommend(ctx, primitive.NewObjectID(), "tt0000001", primitive.NewObjectID())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GroupsAreIsolated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := recstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	alice := primitive.NewObjectID()

	if err := store.Recommend(ctx, g1, snapshot, "tt0372784", alice); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if err := store.Recommend(ctx, g2, snapshot, "tt0372784", alice); err != nil {
		t.Fatalf("Recommend in second group failed: %v", err)
	}

	recs1, _ := store.ListByGroup(ctx, g1)
	recs2, _ := store.ListByGroup(ctx, g2)
	if len(recs1) != 1 || len(recs2) != 1 {
		t.Errorf("same movie in two groups should yield one doc each: %d, %d", len(recs1), len(recs2))
	}
}

func TestStore_ListByMovieForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := recstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	if err := store.Recommend(ctx, g1, snapshot, "tt0372784", alice); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if err := store.Recommend(ctx, g2, snapshot, "tt0372784", bob); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	recs, err := store.ListByMovieForUser(ctx, "tt0372784", alice)
	if err != nil {
		t.Fatalf("ListByMovieForUser failed: %v", err)
	}
	if len(recs) != 1 || recs[0].GroupID != g1 {
		t.Errorf("got %+v, want only the group alice recommended in", recs)
	}
}

func TestStore_DeleteByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := recstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	alice := primitive.NewObjectID()

	for _, movieID := range []string{"tt0000001", "tt0000002"} {
		if err := store.Recommend(ctx, g1, snapshot, movieID, alice); err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
	}
	if err := store.Recommend(ctx, g2, snapshot, "tt0000003", alice); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	deleted, err := store.DeleteByGroup(ctx, g1)
	if err != nil {
		t.Fatalf("DeleteByGroup failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	recs1, _ := store.ListByGroup(ctx, g1)
	recs2, _ := store.ListByGroup(ctx, g2)
	if len(recs1) != 0 {
		t.Errorf("group still has %d recommendations after DeleteByGroup", len(recs1))
	}
	if len(recs2) != 1 {
		t.Errorf("other group's recommendations touched: %d, want 1", len(recs2))
	}
}

func TestStore_CountsByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := recstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	g3 := primitive.NewObjectID()
	alice := primitive.NewObjectID()

	for _, movieID := range []string{"tt0000001", "tt0000002", "tt0000003"} {
		if err := store.Recommend(ctx, g1, snapshot, movieID, alice); err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
	}
	if err := store.Recommend(ctx, g2, snapshot, "tt0000001", alice); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	counts, err := store.CountsByGroup(ctx, []primitive.ObjectID{g1, g2, g3})
	if err != nil {
		t.Fatalf("CountsByGroup failed: %v", err)
	}
	if counts[g1] != 3 || counts[g2] != 1 || counts[g3] != 0 {
		t.Errorf("counts = %v, want g1=3 g2=1 g3=0", counts)
	}
}
