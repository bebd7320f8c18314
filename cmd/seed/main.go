// Command seed loads the bundled chapter content and default users
// into the database. Safe to re-run: chapters upsert, users are only
// created when missing.
package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/neetsprint/neetsprint-server/internal/config"
	"github.com/neetsprint/neetsprint-server/internal/content"
	"github.com/neetsprint/neetsprint-server/internal/db"
	"github.com/neetsprint/neetsprint-server/internal/quiz"
)

//go:embed seeddata/*.json
var seedFS embed.FS

func main() {
	adminPass := flag.String("admin-pass", "admin", "password for the seeded admin user")
	studentPass := flag.String("student-pass", "student", "password for the seeded demo student")
	flag.Parse()

	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	store := content.NewSQLStore(dbh)

	entries, err := seedFS.ReadDir("seeddata")
	if err != nil {
		log.Fatalf("read seed dir: %v", err)
	}
	for _, e := range entries {
		buf, err := seedFS.ReadFile("seeddata/" + e.Name())
		if err != nil {
			log.Fatalf("read %s: %v", e.Name(), err)
		}
		var ch content.Chapter
		if err := json.Unmarshal(buf, &ch); err != nil {
			log.Fatalf("parse %s: %v", e.Name(), err)
		}
		// Validate the question bank before inserting; a seed file with
		// broken questions is a bug worth failing loudly on.
		qs, err := quiz.Normalize(ch.Questions)
		if err != nil {
			log.Fatalf("%s: malformed questions: %v", e.Name(), err)
		}
		if err := store.PutChapter(ch); err != nil {
			log.Fatalf("put chapter %s: %v", ch.ID, err)
		}
		log.Printf("seeded %s (%s, %d questions)", ch.ID, ch.Title, len(qs))
	}

	ensureUser(dbh, "admin", *adminPass, "admin")
	ensureUser(dbh, "student", *studentPass, "student")
}

func ensureUser(dbh *sql.DB, username, password, role string) {
	var exists int
	err := dbh.QueryRow(`SELECT 1 FROM users WHERE username=$1`, username).Scan(&exists)
	if err == nil {
		log.Printf("user %s already present", username)
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("check user %s: %v", username, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	_, err = dbh.Exec(`INSERT INTO users (id,username,password_hash,role,created_at) VALUES ($1,$2,$3,$4,$5)`,
		uuid.NewString(), username, string(hash), role, time.Now().Unix())
	if err != nil {
		log.Fatalf("insert user %s: %v", username, err)
	}
	log.Printf("created %s user %q", role, username)
}
