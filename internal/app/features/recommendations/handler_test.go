package recommendations_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelhub/reelhub/internal/app/features/recommendations"
	groupstore "github.com/reelhub/reelhub/internal/app/store/groups"
	recstore "github.com/reelhub/reelhub/internal/app/store/recommendations"
	"github.com/reelhub/reelhub/internal/domain/models"
	"github.com/reelhub/reelhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*recommendations.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return recommendations.NewHandler(groupstore.New(db), recstore.New(db), zap.NewNop()), db
}

type listResponse struct {
	Combined   []models.Recommendation `json:"combined"`
	Individual []models.Recommendation `json:"individual"`
	Genres     []string                `json:"genres"`
}

func TestHandleRecommend_CreatesAndGrows(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	bob := f.CreateUser(ctx, "Bob", "bob@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)
	f.AddGroupMember(ctx, g.ID, bob.ID, models.RoleMember)

	body := map[string]string{
		"movie_id": "tt0111161",
		"title":    "The Shawshank Redemption",
		"genre":    "Drama",
		"year":     "1994",
		"rating":   "9.3",
		"type":     "movie",
	}

	recommend := func(u models.User) *httptest.ResponseRecorder {
		req := testutil.WithChiURLParam(
			testutil.WithUser(
				testutil.NewJSONRequest(t, "POST", "/groups/"+g.ID.Hex()+"/recommendations", body),
				testutil.UserFor(u.ID, u.Name, u.Email)),
			"groupID", g.ID.Hex())
		rec := httptest.NewRecorder()
		handler.HandleRecommend(rec, req)
		return rec
	}

	if rec := recommend(ada); rec.Code != http.StatusOK {
		t.Fatalf("first recommend status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if rec := recommend(bob); rec.Code != http.StatusOK {
		t.Fatalf("second recommend status = %d, want %d", rec.Code, http.StatusOK)
	}
	// Recommending again is a no-op, not an error.
	if rec := recommend(ada); rec.Code != http.StatusOK {
		t.Fatalf("repeat recommend status = %d, want %d", rec.Code, http.StatusOK)
	}

	recs, err := recstore.New(db).ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1 shared document", len(recs))
	}
	if len(recs[0].RecommendedBy) != 2 {
		t.Errorf("RecommendedBy has %d users, want 2", len(recs[0].RecommendedBy))
	}
	if recs[0].Movie.Title != "The Shawshank Redemption" {
		t.Errorf("snapshot title = %q", recs[0].Movie.Title)
	}
}

func TestHandleRecommend_RejectsBadMovieID(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)

	req := testutil.WithChiURLParam(
		testutil.WithUser(
			testutil.NewJSONRequest(t, "POST", "/groups/"+g.ID.Hex()+"/recommendations", map[string]string{
				"movie_id": "not-an-imdb-id",
				"title":    "Whatever",
			}),
			testutil.UserFor(ada.ID, ada.Name, ada.Email)),
		"groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleRecommend(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleRecommend_NonMemberForbidden(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	outsider := f.CreateUser(ctx, "Outsider", "out@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)

	req := testutil.WithChiURLParam(
		testutil.WithUser(
			testutil.NewJSONRequest(t, "POST", "/groups/"+g.ID.Hex()+"/recommendations", map[string]string{
				"movie_id": "tt0111161",
				"title":    "The Shawshank Redemption",
			}),
			testutil.UserFor(outsider.ID, outsider.Name, outsider.Email)),
		"groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleRecommend(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestServeList_PartitionsBySelection(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	bob := f.CreateUser(ctx, "Bob", "bob@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)
	f.AddGroupMember(ctx, g.ID, bob.ID, models.RoleMember)

	// Both recommend one movie; only Ada recommends the other.
	f.CreateRecommendation(ctx, g.ID, "tt0111161", "The Shawshank Redemption", "Drama", ada.ID, bob.ID)
	f.CreateRecommendation(ctx, g.ID, "tt0068646", "The Godfather", "Crime, Drama", ada.ID)

	target := "/groups/" + g.ID.Hex() + "/recommendations?users=" + ada.ID.Hex() + "," + bob.ID.Hex()
	req := testutil.WithChiURLParam(
		testutil.NewAuthenticatedRequest("GET", target, testutil.UserFor(ada.ID, ada.Name, ada.Email)),
		"groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got listResponse
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Combined) != 1 || got.Combined[0].MovieID != "tt0111161" {
		t.Errorf("Combined = %+v, want just tt0111161", got.Combined)
	}
	if len(got.Individual) != 1 || got.Individual[0].MovieID != "tt0068646" {
		t.Errorf("Individual = %+v, want just tt0068646", got.Individual)
	}
	if len(got.Genres) != 2 { // Crime, Drama
		t.Errorf("Genres = %v, want 2 entries", got.Genres)
	}
}

func TestServeList_NoSelectionIsAllIndividual(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)
	f.CreateRecommendation(ctx, g.ID, "tt0111161", "The Shawshank Redemption", "Drama", ada.ID)

	req := testutil.WithChiURLParam(
		testutil.NewAuthenticatedRequest("GET", "/groups/"+g.ID.Hex()+"/recommendations", testutil.UserFor(ada.ID, ada.Name, ada.Email)),
		"groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got listResponse
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Combined) != 0 {
		t.Errorf("Combined = %+v, want empty with no selection", got.Combined)
	}
	if len(got.Individual) != 1 {
		t.Errorf("Individual has %d entries, want 1", len(got.Individual))
	}
}

func TestServeList_GenreFilter(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)
	f.CreateRecommendation(ctx, g.ID, "tt0111161", "The Shawshank Redemption", "Drama", ada.ID)
	f.CreateRecommendation(ctx, g.ID, "tt0133093", "The Matrix", "Action, Sci-Fi", ada.ID)

	req := testutil.WithChiURLParam(
		testutil.NewAuthenticatedRequest("GET", "/groups/"+g.ID.Hex()+"/recommendations?genre=Sci-Fi", testutil.UserFor(ada.ID, ada.Name, ada.Email)),
		"groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got listResponse
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Individual) != 1 || got.Individual[0].MovieID != "tt0133093" {
		t.Errorf("Individual = %+v, want just the Sci-Fi title", got.Individual)
	}
	// The genre catalog is built from all recommendations, not the filtered view.
	if len(got.Genres) != 3 {
		t.Errorf("Genres = %v, want 3 entries", got.Genres)
	}
}

func TestServeList_SelectionOutsideGroupRejected(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	outsider := f.CreateUser(ctx, "Outsider", "out@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)

	req := testutil.WithChiURLParam(
		testutil.NewAuthenticatedRequest("GET", "/groups/"+g.ID.Hex()+"/recommendations?users="+outsider.ID.Hex(),
			testutil.UserFor(ada.ID, ada.Name, ada.Email)),
		"groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	handler.ServeList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleUnrecommend_LastRecommenderRemovesDocument(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)
	f.CreateRecommendation(ctx, g.ID, "tt0111161", "The Shawshank Redemption", "Drama", ada.ID)

	req := testutil.WithChiURLParam(
		testutil.WithChiURLParam(
			testutil.NewAuthenticatedRequest("DELETE", "/groups/"+g.ID.Hex()+"/recommendations/tt0111161",
				testutil.UserFor(ada.ID, ada.Name, ada.Email)),
			"groupID", g.ID.Hex()),
		"movieID", "tt0111161")
	rec := httptest.NewRecorder()

	handler.HandleUnrecommend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	recs, err := recstore.New(db).ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recommendations, want 0 after last recommender left", len(recs))
	}
}

func TestHandleUnrecommend_UnknownMovieNotFound(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	g := f.CreateGroup(ctx, "Film Club", ada.ID)

	req := testutil.WithChiURLParam(
		testutil.WithChiURLParam(
			testutil.NewAuthenticatedRequest("DELETE", "/groups/"+g.ID.Hex()+"/recommendations/tt0111161",
				testutil.UserFor(ada.ID, ada.Name, ada.Email)),
			"groupID", g.ID.Hex()),
		"movieID", "tt0111161")
	rec := httptest.NewRecorder()

	handler.HandleUnrecommend(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
