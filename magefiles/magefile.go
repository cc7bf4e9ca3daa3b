//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const migrationsDir = "./internal/adapters/sqlite/migrations"

var binaries = []struct{ out, pkg string }{
	{"bin/hrdoc-server", "./cmd/server"},
	{"bin/hrdoc", "./cmd/hrdoc"},
}

// Dbup runs dbmate against DATABASE_URL using the embedded migrations.
// The server applies the same files on start; this is for managing a
// database out of band.
func Dbup() error {
	if _, err := exec.LookPath("dbmate"); err != nil {
		fmt.Println(">> dbmate not found; install with:")
		fmt.Println("   go install github.com/amacneil/dbmate/v2@latest")
		return err
	}
	if os.Getenv("DATABASE_URL") == "" {
		db := os.Getenv("DB_PATH")
		if db == "" {
			db = "hrdocs.db"
		}
		os.Setenv("DATABASE_URL", "sqlite:"+db)
	}
	fmt.Println(">> dbmate up")
	return sh.RunWith(map[string]string{"DBMATE_MIGRATIONS_DIR": migrationsDir}, "dbmate", "up")
}

// Build tidies deps, then compiles the server and the CLI into ./bin.
func Build() error {
	mg.Deps(Tidy)
	for _, b := range binaries {
		fmt.Println(">> Building", b.out)
		if err := sh.Run("go", "build", "-o", b.out, b.pkg); err != nil {
			return err
		}
	}
	return nil
}

// Run builds then executes the server binary.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server on :" + port() + " ...")
	return sh.Run("./bin/hrdoc-server")
}

// Dev starts the server via go run with debug logging.
func Dev() error {
	fmt.Println(">> Dev mode: go run ./cmd/server ...")
	cmd := exec.Command("go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "PORT="+port(), "LOG_LEVEL=debug")
	return cmd.Run()
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and the local SQLite DB. Stored documents
// are kept.
func Clean() error {
	fmt.Println(">> Cleaning...")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	db := os.Getenv("DB_PATH")
	if db == "" {
		db = "hrdocs.db"
	}
	return sh.Rm(db)
}

// Install installs both binaries to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	for _, b := range binaries {
		if err := sh.Run("go", "install", b.pkg); err != nil {
			return err
		}
	}
	return nil
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
