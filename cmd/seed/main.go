package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ndelorme/trellis/config"
	"github.com/ndelorme/trellis/pkg/helpers"
)

// seed creates a few demo accounts with an established friendship and some
// wall posts, for poking at the API locally.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	seedUsers := []struct {
		name, first, last string
		age               int
	}{
		{"alice", "Alice", "Martin", 29},
		{"bob", "Bob", "Durand", 34},
		{"carol", "Carol", "Petit", 26},
	}

	ids := make(map[string]string, len(seedUsers))
	for _, su := range seedUsers {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (user_name, password_hash, email, first_name, last_name, age)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_name) DO UPDATE SET updated_at = now()
			RETURNING id
		`, su.name, hash, su.name+"@example.com", su.first, su.last, su.age).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", su.name, err)
		}
		ids[su.name] = id
		fmt.Printf("seeded user: id=%s user_name=%s password=%s\n", id, su.name, password)
	}

	// alice and bob are friends; carol has a pending request to alice
	a, b := ids["alice"], ids["bob"]
	if a > b {
		a, b = b, a
	}
	if _, err := db.Exec(`
		INSERT INTO friendships (user_a, user_b) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, a, b); err != nil {
		log.Fatalf("failed to seed friendship: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO friend_requests (requester_id, recipient_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, ids["carol"], ids["alice"]); err != nil {
		log.Fatalf("failed to seed friend request: %v", err)
	}

	posts := []struct{ author, content string }{
		{"alice", "First post on my new wall."},
		{"bob", "Hello from bob."},
		{"carol", "Anyone out there?"},
	}
	for _, p := range posts {
		if _, err := db.Exec(`
			INSERT INTO posts (author_id, content) VALUES ($1, $2)
		`, ids[p.author], p.content); err != nil {
			log.Fatalf("failed to seed post for %s: %v", p.author, err)
		}
	}
	fmt.Println("seeded friendship alice<->bob, pending request carol->alice, and demo posts")
}
