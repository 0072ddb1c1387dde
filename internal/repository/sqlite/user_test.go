package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/yatube/internal/apperror"
	"github.com/sakif/yatube/internal/model"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "leo", PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "leo")

	err := db.CreateUser(context.Background(), &model.User{Username: "leo"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "leo")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Username != "leo" {
		t.Errorf("Username = %q, want %q", found.Username, "leo")
	}
	if found.PasswordHash != "hash" {
		t.Errorf("PasswordHash = %q, want %q", found.PasswordHash, "hash")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "tolstoy")

	found, err := db.GetUserByUsername(context.Background(), "tolstoy")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}

	_, err = db.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpsertGitHubUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{Username: "octocat", GitHubID: 583231}
	if err := db.UpsertGitHubUser(ctx, first); err != nil {
		t.Fatalf("UpsertGitHubUser() insert error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("UpsertGitHubUser() did not set ID on insert")
	}

	// Same GitHub account logging in again keeps the original row.
	again := &model.User{Username: "renamed", GitHubID: 583231}
	if err := db.UpsertGitHubUser(ctx, again); err != nil {
		t.Fatalf("UpsertGitHubUser() second call error = %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("ID = %q, want existing %q", again.ID, first.ID)
	}
	if again.Username != "octocat" {
		t.Errorf("Username = %q, want existing %q", again.Username, "octocat")
	}
	if n := countRows(t, db, "users"); n != 1 {
		t.Errorf("users rows = %d, want 1", n)
	}
}
