//go:build integration

package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

var testPool *pgxpool.Pool

const (
	testImage     = "postgres:16-alpine"
	testContainer = "poster-commerce-pgtest"
)

// schemaPath locates deploy/postgres/init.sql relative to this file.
func schemaPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "deploy", "postgres", "init.sql")
}

// startContainer runs a throwaway Postgres on a random loopback port and
// returns its DSN plus a stop func.
func startContainer() (string, func(), error) {
	_ = exec.Command("docker", "rm", "-f", testContainer).Run()
	run := exec.Command("docker", "run", "-d", "--rm",
		"--name", testContainer,
		"-p", "127.0.0.1::5432",
		"-e", "POSTGRES_DB=posters_test",
		"-e", "POSTGRES_USER=posters",
		"-e", "POSTGRES_PASSWORD=posters",
		testImage,
	)
	if out, err := run.CombinedOutput(); err != nil {
		return "", nil, fmt.Errorf("docker run: %v: %s", err, out)
	}
	stop := func() {
		if err := exec.Command("docker", "stop", testContainer).Run(); err != nil {
			log.Printf("stop %s: %v", testContainer, err)
		}
	}
	out, err := exec.Command("docker", "port", testContainer, "5432/tcp").Output()
	if err != nil {
		stop()
		return "", nil, fmt.Errorf("docker port: %w", err)
	}
	// "127.0.0.1:49153", possibly followed by an IPv6 line
	addr := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	return fmt.Sprintf("postgres://posters:posters@%s/posters_test?sslmode=disable", addr), stop, nil
}

// TestMain connects to TEST_DATABASE_URL when set, otherwise to a fresh
// container, and loads the schema before running the suite.
func TestMain(m *testing.M) {
	ctx := context.Background()
	stop := func() {}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		var err error
		dsn, stop, err = startContainer()
		if err != nil {
			log.Fatalf("postgres container: %v (is docker running? set TEST_DATABASE_URL to use an existing server)", err)
		}
	}

	var err error
	for attempt := 1; attempt <= 20; attempt++ {
		if testPool, err = NewPgxPool(ctx, dsn, 4); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		stop()
		log.Fatalf("postgres not ready: %v", err)
	}

	schema, err := os.ReadFile(schemaPath())
	if err != nil {
		stop()
		log.Fatalf("read schema: %v", err)
	}
	if _, err := testPool.Exec(ctx, string(schema)); err != nil {
		stop()
		log.Fatalf("apply schema: %v", err)
	}

	code := m.Run()
	testPool.Close()
	stop()
	os.Exit(code)
}

func cleanup(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `
		TRUNCATE
			orders, stories, users, plans, posters, business_posters,
			categories, business_categories, logos, business_cards,
			pages, contact_messages
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
