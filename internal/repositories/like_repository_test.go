package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/inkwell/backend/internal/testutil"
)

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewPostgresLikeRepository(db)
	alice := testutil.CreateUser(t, db, "alice", "")
	bob := testutil.CreateUser(t, db, "bob", "")
	const post = "65f0c0ffee0000000000abcd"

	for _, u := range []uint{alice.ID, bob.ID} {
		liked, err := repo.ToggleLike(ctx, post, u)
		if err != nil || !liked {
			t.Fatalf("like by %d = %v, %v", u, liked, err)
		}
	}
	if n, _ := repo.GetLikesCountByPostID(ctx, post); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}

	liked, err := repo.ToggleLike(ctx, post, alice.ID)
	if err != nil || liked {
		t.Fatalf("unlike = %v, %v", liked, err)
	}
	if ok, _ := repo.HasUserLikedPost(ctx, post, alice.ID); ok {
		t.Fatal("alice's like should be gone")
	}
	if ok, _ := repo.HasUserLikedPost(ctx, post, bob.ID); !ok {
		t.Fatal("bob's like should remain")
	}
	if n, _ := repo.GetLikesCountByPostID(ctx, post); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}

	set, err := repo.LikedPostIDs(ctx, bob.ID, []string{post, "65f0c0ffee0000000000ffff"})
	if err != nil {
		t.Fatal(err)
	}
	if !set[post] || len(set) != 1 {
		t.Fatalf("liked set = %v", set)
	}
}
