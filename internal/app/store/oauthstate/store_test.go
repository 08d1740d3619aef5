package oauthstate_test

import (
	"testing"
	"time"

	"github.com/reelhub/reelhub/internal/app/store/oauthstate"
	"github.com/reelhub/reelhub/internal/testutil"
)

func TestStore_SaveAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := store.Save(ctx, "state-token-1", "/groups", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	returnURL, valid, err := store.Validate(ctx, "state-token-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Fatal("expected state to be valid")
	}
	if returnURL != "/groups" {
		t.Errorf("returnURL = %q, want %q", returnURL, "/groups")
	}

	// One-time use: a second validation of the same state fails.
	_, valid, err = store.Validate(ctx, "state-token-1")
	if err != nil {
		t.Fatalf("second Validate failed: %v", err)
	}
	if valid {
		t.Error("state should be consumed after first validation")
	}
}

func TestStore_Validate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(-1 * time.Minute)
	if err := store.Save(ctx, "stale-token", "", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, valid, err := store.Validate(ctx, "stale-token")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("expired state should not validate")
	}
}

func TestStore_Validate_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, valid, err := store.Validate(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("unknown state should not validate")
	}
}
