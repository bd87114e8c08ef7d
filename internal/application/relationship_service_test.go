package application

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ndelorme/trellis/internal/domain/entity"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type relEnv struct {
	users *memUserRepo
	edges *memEdgeRepo
	svc   *RelationshipService
	ids   map[string]string
}

func newRelEnv(t *testing.T, names ...string) *relEnv {
	t.Helper()
	users := newMemUserRepo()
	edges := newMemEdgeRepo(users)
	env := &relEnv{
		users: users,
		edges: edges,
		svc:   NewRelationshipService(users, edges, nil, nil, quietLogger()),
		ids:   map[string]string{},
	}
	for _, name := range names {
		u := &entity.User{
			UserName:     name,
			PasswordHash: "x",
			Email:        name + "@example.com",
			FirstName:    name,
			LastName:     "Test",
			Age:          30,
			Role:         entity.RoleUser,
		}
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		env.ids[name] = u.ID
	}
	return env
}

func refNames(refs []entity.UserRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.UserName)
	}
	return out
}

func TestRequestAcceptFlow(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := env.ids["alice"], env.ids["bob"]

	if err := env.svc.Request(ctx, alice, bob); err != nil {
		t.Fatalf("request: %v", err)
	}

	pending, err := env.svc.Pending(ctx, bob)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if got := refNames(pending); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("pending = %v, want [alice]", got)
	}

	if err := env.svc.Accept(ctx, bob, alice); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Symmetric friendship, pending edge gone.
	bobFriends, _ := env.svc.Friends(ctx, bob)
	aliceFriends, _ := env.svc.Friends(ctx, alice)
	if got := refNames(bobFriends); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("bob friends = %v, want [alice]", got)
	}
	if got := refNames(aliceFriends); len(got) != 1 || got[0] != "bob" {
		t.Fatalf("alice friends = %v, want [bob]", got)
	}
	pending, _ = env.svc.Pending(ctx, bob)
	if len(pending) != 0 {
		t.Fatalf("pending after accept = %v, want empty", refNames(pending))
	}
}

func TestDuplicateRequestConflict(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	ctx := context.Background()

	if err := env.svc.Request(ctx, env.ids["alice"], env.ids["bob"]); err != nil {
		t.Fatalf("first request: %v", err)
	}
	err := env.svc.Request(ctx, env.ids["alice"], env.ids["bob"])
	if !errors.Is(err, ErrRelationshipExists) {
		t.Fatalf("second request err = %v, want ErrRelationshipExists", err)
	}
}

func TestRejectThenReRequest(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := env.ids["alice"], env.ids["bob"]

	if err := env.svc.Request(ctx, alice, bob); err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := env.svc.Reject(ctx, bob, alice); err != nil {
		t.Fatalf("reject: %v", err)
	}

	pending, _ := env.svc.Pending(ctx, bob)
	if len(pending) != 0 {
		t.Fatalf("pending after reject = %v, want empty", refNames(pending))
	}
	for _, id := range []string{alice, bob} {
		friends, _ := env.svc.Friends(ctx, id)
		if len(friends) != 0 {
			t.Fatalf("friends after reject = %v, want empty", refNames(friends))
		}
	}

	// A rejection does not block a fresh request.
	if err := env.svc.Request(ctx, alice, bob); err != nil {
		t.Fatalf("re-request after reject: %v", err)
	}
	pending, _ = env.svc.Pending(ctx, bob)
	if got := refNames(pending); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("pending after re-request = %v, want [alice]", got)
	}
}

func TestSelfRequestInvalid(t *testing.T) {
	env := newRelEnv(t, "alice")
	err := env.svc.Request(context.Background(), env.ids["alice"], env.ids["alice"])
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self request err = %v, want ErrInvalidInput", err)
	}
}

func TestRequestInvalidInput(t *testing.T) {
	env := newRelEnv(t, "alice")
	ctx := context.Background()
	cases := []struct {
		name      string
		requester string
		recipient string
	}{
		{"missing requester", "", env.ids["alice"]},
		{"missing recipient", env.ids["alice"], ""},
		{"malformed recipient", env.ids["alice"], "not-a-uuid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := env.svc.Request(ctx, tc.requester, tc.recipient); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRequestUnknownRecipient(t *testing.T) {
	env := newRelEnv(t, "alice")
	err := env.svc.Request(context.Background(), env.ids["alice"], "00000000-0000-0000-0000-000000000001")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestMutualRequestsAutoResolve(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := env.ids["alice"], env.ids["bob"]

	if err := env.svc.Request(ctx, alice, bob); err != nil {
		t.Fatalf("alice->bob: %v", err)
	}
	// The reverse request counts as an accept, not a second pending edge.
	if err := env.svc.Request(ctx, bob, alice); err != nil {
		t.Fatalf("bob->alice: %v", err)
	}

	for name, id := range env.ids {
		pending, _ := env.svc.Pending(ctx, id)
		if len(pending) != 0 {
			t.Fatalf("%s pending = %v, want empty", name, refNames(pending))
		}
		friends, _ := env.svc.Friends(ctx, id)
		if len(friends) != 1 {
			t.Fatalf("%s friends = %v, want one entry", name, refNames(friends))
		}
	}
}

func TestRequestWhenAlreadyFriends(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := env.ids["alice"], env.ids["bob"]

	if err := env.svc.Request(ctx, alice, bob); err != nil {
		t.Fatal(err)
	}
	if err := env.svc.Accept(ctx, bob, alice); err != nil {
		t.Fatal(err)
	}

	for _, pair := range [][2]string{{alice, bob}, {bob, alice}} {
		if err := env.svc.Request(ctx, pair[0], pair[1]); !errors.Is(err, ErrRelationshipExists) {
			t.Fatalf("request between friends err = %v, want ErrRelationshipExists", err)
		}
	}
}

func TestAcceptWithoutPendingEdge(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	err := env.svc.Accept(context.Background(), env.ids["bob"], env.ids["alice"])
	if !errors.Is(err, ErrNoPendingRequest) {
		t.Fatalf("err = %v, want ErrNoPendingRequest", err)
	}
}

func TestDoubleResolveFails(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := env.ids["alice"], env.ids["bob"]

	if err := env.svc.Request(ctx, alice, bob); err != nil {
		t.Fatal(err)
	}
	if err := env.svc.Accept(ctx, bob, alice); err != nil {
		t.Fatal(err)
	}
	// The edge is resolved; a second accept or reject must not succeed.
	if err := env.svc.Accept(ctx, bob, alice); !errors.Is(err, ErrNoPendingRequest) {
		t.Fatalf("second accept err = %v, want ErrNoPendingRequest", err)
	}
	if err := env.svc.Reject(ctx, bob, alice); !errors.Is(err, ErrNoPendingRequest) {
		t.Fatalf("reject after accept err = %v, want ErrNoPendingRequest", err)
	}
}

func TestRejectTwice(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := env.ids["alice"], env.ids["bob"]

	if err := env.svc.Request(ctx, alice, bob); err != nil {
		t.Fatal(err)
	}
	if err := env.svc.Reject(ctx, bob, alice); err != nil {
		t.Fatal(err)
	}
	if err := env.svc.Reject(ctx, bob, alice); !errors.Is(err, ErrNoPendingRequest) {
		t.Fatalf("second reject err = %v, want ErrNoPendingRequest", err)
	}
}

func TestAcceptClearsReversePendingEdge(t *testing.T) {
	env := newRelEnv(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := env.ids["alice"], env.ids["bob"]

	// Pending edges in both directions at once, as two racing mutual
	// requests could leave in a store without the pair-unique guard.
	env.edges.pending[edgeKey{alice, bob}] = env.edges.next()
	env.edges.pending[edgeKey{bob, alice}] = env.edges.next()

	if err := env.svc.Accept(ctx, bob, alice); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Both directions must be gone; no edge may stay pending between
	// friends.
	for name, id := range env.ids {
		pending, err := env.svc.Pending(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if len(pending) != 0 {
			t.Fatalf("%s pending = %v, want empty", name, refNames(pending))
		}
	}
	friends, err := env.svc.Friends(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if got := refNames(friends); len(got) != 1 || got[0] != "bob" {
		t.Fatalf("alice friends = %v, want [bob]", got)
	}
}

func TestPendingUnknownUser(t *testing.T) {
	env := newRelEnv(t)
	_, err := env.svc.Pending(context.Background(), "00000000-0000-0000-0000-000000000001")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	_, err = env.svc.Friends(context.Background(), "not-a-uuid")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestPendingOrderOldestFirst(t *testing.T) {
	env := newRelEnv(t, "alice", "bob", "carol", "dave")
	ctx := context.Background()

	for _, requester := range []string{"bob", "carol", "dave"} {
		if err := env.svc.Request(ctx, env.ids[requester], env.ids["alice"]); err != nil {
			t.Fatalf("request %s: %v", requester, err)
		}
	}
	pending, err := env.svc.Pending(ctx, env.ids["alice"])
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"bob", "carol", "dave"}
	got := refNames(pending)
	if len(got) != len(want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pending = %v, want %v", got, want)
		}
	}
}
