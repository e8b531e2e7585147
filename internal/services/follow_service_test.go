package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/anonto42/inkwell/backend/internal/testutil"
	"github.com/anonto42/inkwell/backend/internal/testutil/memposts"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type followFixture struct {
	db    *gorm.DB
	posts *memposts.Repo
	svc   *FollowService
	clock time.Time
}

func newFollowFixture(t *testing.T, limits ListLimits) *followFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	f := &followFixture{
		db:    db,
		posts: memposts.New(),
		clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewFollowService(
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresFollowRepository(db),
		f.posts,
		zap.NewNop(),
		limits,
	)
	// every toggle happens one minute after the previous one
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	return f
}

func (f *followFixture) follow(t *testing.T, follower, target *models.User) {
	t.Helper()
	res, err := f.svc.ToggleFollow(context.Background(), follower.TokenIdentifier, target.ID)
	if err != nil {
		t.Fatalf("toggle %s -> %d: %v", follower.TokenIdentifier, target.ID, err)
	}
	if !res.Following {
		t.Fatalf("toggle %s -> %d unfollowed, want follow", follower.TokenIdentifier, target.ID)
	}
}

func TestToggleFollowTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)
	alice := testutil.CreateUser(t, f.db, "alice", "alice")
	bob := testutil.CreateUser(t, f.db, "bob", "bob")

	res, err := f.svc.ToggleFollow(ctx, "alice", bob.ID)
	if err != nil || !res.Following {
		t.Fatalf("first toggle = %+v, %v", res, err)
	}
	if ok, _ := f.svc.IsFollowing(ctx, "alice", bob.ID); !ok {
		t.Fatal("alice should follow bob")
	}
	if n, _ := f.svc.FollowerCount(ctx, bob.ID); n != 1 {
		t.Fatalf("bob follower count = %d, want 1", n)
	}
	if n, _ := f.svc.FollowingCount(ctx, alice.ID); n != 1 {
		t.Fatalf("alice following count = %d, want 1", n)
	}

	res, err = f.svc.ToggleFollow(ctx, "alice", bob.ID)
	if err != nil || res.Following {
		t.Fatalf("second toggle = %+v, %v", res, err)
	}
	if ok, _ := f.svc.IsFollowing(ctx, "alice", bob.ID); ok {
		t.Fatal("alice should no longer follow bob")
	}
	if n, _ := f.svc.FollowerCount(ctx, bob.ID); n != 0 {
		t.Fatalf("bob follower count = %d, want 0", n)
	}
}

func TestToggleFollowRejections(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)
	alice := testutil.CreateUser(t, f.db, "alice", "alice")

	tests := []struct {
		name     string
		identity string
		target   uint
		want     error
	}{
		{"anonymous", "", alice.ID, ErrUnauthenticated},
		{"caller without record", "ghost", alice.ID, ErrUserNotFound},
		{"self", "alice", alice.ID, ErrCannotFollowSelf},
		{"missing target", "alice", alice.ID + 100, ErrTargetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ToggleFollow(ctx, tt.identity, tt.target)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	var count int64
	f.db.Model(&models.Follow{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected toggles left %d edges", count)
	}
}

func TestIsFollowingAbsentInputs(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)
	alice := testutil.CreateUser(t, f.db, "alice", "alice")
	bob := testutil.CreateUser(t, f.db, "bob", "bob")
	f.follow(t, alice, bob)

	cases := []struct {
		identity string
		target   uint
	}{
		{"", bob.ID},
		{"alice", 0},
		{"ghost", bob.ID},
	}
	for _, c := range cases {
		ok, err := f.svc.IsFollowing(ctx, c.identity, c.target)
		if err != nil || ok {
			t.Fatalf("IsFollowing(%q, %d) = %v, %v; want false, nil", c.identity, c.target, ok, err)
		}
	}
}

func TestCountsForAbsentUser(t *testing.T) {
	f := newFollowFixture(t, DefaultListLimits)
	if n, err := f.svc.FollowerCount(context.Background(), 0); n != 0 || err != nil {
		t.Fatalf("FollowerCount(0) = %d, %v", n, err)
	}
	if n, err := f.svc.FollowingCount(context.Background(), 0); n != 0 || err != nil {
		t.Fatalf("FollowingCount(0) = %d, %v", n, err)
	}
}

func TestMyFollowersNewestFirstWithFollowsBack(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)
	alice := testutil.CreateUser(t, f.db, "alice", "alice")
	b := testutil.CreateUser(t, f.db, "b", "bee")
	c := testutil.CreateUser(t, f.db, "c", "cee")
	d := testutil.CreateUser(t, f.db, "d", "dee")

	f.follow(t, b, alice)
	f.follow(t, c, alice)
	f.follow(t, d, alice)
	f.follow(t, alice, c)
	f.posts.Publish(c.ID, "hello", f.clock)

	entries, err := f.svc.MyFollowers(ctx, "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d followers, want 3", len(entries))
	}
	wantOrder := []uint{d.ID, c.ID, b.ID}
	for i, e := range entries {
		if e.ID != wantOrder[i] {
			t.Fatalf("entry %d = user %d, want %d", i, e.ID, wantOrder[i])
		}
		if e.FollowsBack == nil {
			t.Fatalf("entry %d: follows_back not set", i)
		}
		if e.CurrentUserFollows != nil || e.RecentPosts != nil {
			t.Fatalf("entry %d: unexpected fields for a follower listing", i)
		}
	}
	if !*entries[1].FollowsBack || *entries[0].FollowsBack || *entries[2].FollowsBack {
		t.Fatal("only c should be followed back")
	}
	if entries[1].PostCount != 1 || entries[1].LastPostAt == nil {
		t.Fatalf("c post stats = %d, %v", entries[1].PostCount, entries[1].LastPostAt)
	}
	if entries[1].FollowerCount != 1 {
		t.Fatalf("c follower count = %d, want 1", entries[1].FollowerCount)
	}
	if !entries[0].FollowedAt.After(entries[1].FollowedAt) {
		t.Fatal("followed_at should be newest first")
	}
}

func TestMyListingsAnonymousAreEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)

	for _, identity := range []string{"", "ghost"} {
		followers, err := f.svc.MyFollowers(ctx, identity, 10)
		if err != nil || followers == nil || len(followers) != 0 {
			t.Fatalf("MyFollowers(%q) = %v, %v", identity, followers, err)
		}
		following, err := f.svc.MyFollowing(ctx, identity, 10)
		if err != nil || following == nil || len(following) != 0 {
			t.Fatalf("MyFollowing(%q) = %v, %v", identity, following, err)
		}
	}
}

func TestMyFollowingIncludesRecentPosts(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)
	alice := testutil.CreateUser(t, f.db, "alice", "alice")
	writer := testutil.CreateUser(t, f.db, "writer", "writer")
	quiet := testutil.CreateUser(t, f.db, "quiet", "quiet")

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.posts.Publish(writer.ID, "post", base.Add(time.Duration(i)*time.Hour))
	}
	_ = f.posts.CreatePost(ctx, &models.Post{AuthorID: writer.ID, Title: "draft", Status: models.PostStatusDraft})

	f.follow(t, alice, writer)
	f.follow(t, alice, quiet)

	entries, err := f.svc.MyFollowing(ctx, "alice", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].ID != quiet.ID || entries[1].ID != writer.ID {
		t.Fatalf("unexpected following order: %+v", entries)
	}

	w := entries[1]
	if w.PostCount != 3 || len(w.RecentPosts) != 3 {
		t.Fatalf("writer post count = %d, recent = %d; want 3, 3", w.PostCount, len(w.RecentPosts))
	}
	newest := base.Add(4 * time.Hour)
	if w.LastPostAt == nil || !w.LastPostAt.Equal(newest) {
		t.Fatalf("last_post_at = %v, want %v", w.LastPostAt, newest)
	}
	if !w.RecentPosts[0].PublishedAt.Equal(newest) {
		t.Fatal("recent posts should be newest first")
	}
	if w.FollowsBack != nil {
		t.Fatal("following listing does not compute follows_back")
	}

	q := entries[0]
	if q.PostCount != 0 || q.LastPostAt != nil || len(q.RecentPosts) != 0 {
		t.Fatalf("quiet user post stats = %+v", q)
	}
}

func TestRecentPostsOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)
	alice := testutil.CreateUser(t, f.db, "alice", "alice")
	writer := testutil.CreateUser(t, f.db, "writer", "writer")

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	// written first, published last
	late := base.Add(10 * time.Hour)
	_ = f.posts.CreatePost(ctx, &models.Post{
		AuthorID:    writer.ID,
		Title:       "old draft",
		Status:      models.PostStatusPublished,
		PublishedAt: &late,
		CreatedAt:   base,
	})
	f.posts.Publish(writer.ID, "fresh", base.Add(time.Hour))
	f.follow(t, alice, writer)

	entries, err := f.svc.MyFollowing(ctx, "alice", 20)
	if err != nil || len(entries) != 1 {
		t.Fatalf("MyFollowing = %+v, %v", entries, err)
	}
	w := entries[0]
	if len(w.RecentPosts) != 2 || w.RecentPosts[0].Title != "fresh" {
		t.Fatalf("recent posts = %+v", w.RecentPosts)
	}
	if w.LastPostAt == nil || !w.LastPostAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("last_post_at = %v, want publish time of the newest post", w.LastPostAt)
	}
}

func TestFollowersByUsername(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)
	profile := testutil.CreateUser(t, f.db, "profile", "profile")
	x := testutil.CreateUser(t, f.db, "x", "ex")
	y := testutil.CreateUser(t, f.db, "y", "why")
	viewer := testutil.CreateUser(t, f.db, "viewer", "viewer")

	f.follow(t, x, profile)
	f.follow(t, y, profile)
	f.follow(t, profile, x)
	f.follow(t, viewer, y)

	entries, err := f.svc.FollowersByUsername(ctx, "viewer", "profile", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].ID != y.ID || entries[1].ID != x.ID {
		t.Fatalf("unexpected followers: %+v", entries)
	}
	if *entries[0].FollowsBack || !*entries[1].FollowsBack {
		t.Fatal("follows_back must be relative to the profile user")
	}
	if !*entries[0].CurrentUserFollows || *entries[1].CurrentUserFollows {
		t.Fatal("current_user_follows must be relative to the caller")
	}

	anon, err := f.svc.FollowersByUsername(ctx, "", "profile", 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range anon {
		if e.CurrentUserFollows == nil || *e.CurrentUserFollows {
			t.Fatalf("anonymous caller: current_user_follows = %v", e.CurrentUserFollows)
		}
	}

	if _, err := f.svc.FollowersByUsername(ctx, "viewer", "nobody", 0); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown username err = %v, want ErrUserNotFound", err)
	}
}

func TestListingsDropDeletedUsers(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, DefaultListLimits)
	alice := testutil.CreateUser(t, f.db, "alice", "alice")
	gone := testutil.CreateUser(t, f.db, "gone", "gone")
	stays := testutil.CreateUser(t, f.db, "stays", "stays")

	f.follow(t, gone, alice)
	f.follow(t, stays, alice)
	if err := f.db.Delete(&models.User{}, gone.ID).Error; err != nil {
		t.Fatal(err)
	}

	entries, err := f.svc.MyFollowers(ctx, "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != stays.ID {
		t.Fatalf("entries = %+v, want only %d", entries, stays.ID)
	}
}

func TestListingLimitsAreClamped(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t, ListLimits{Default: 2, Max: 3})
	alice := testutil.CreateUser(t, f.db, "alice", "alice")
	for _, token := range []string{"u1", "u2", "u3", "u4", "u5"} {
		u := testutil.CreateUser(t, f.db, token, token+"x")
		f.follow(t, u, alice)
	}

	tests := []struct {
		limit int
		want  int
	}{
		{0, 2},
		{-4, 2},
		{1, 1},
		{3, 3},
		{50, 3},
	}
	for _, tt := range tests {
		entries, err := f.svc.MyFollowers(ctx, "alice", tt.limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != tt.want {
			t.Fatalf("limit %d: got %d entries, want %d", tt.limit, len(entries), tt.want)
		}
	}
}
