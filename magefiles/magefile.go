//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const templDir = "./internal/templates"

// binaries maps each output name under ./bin to its package.
var binaries = map[string]string{
	"tracker-web":   "./cmd/server",
	"tracker-store": "./cmd/store",
	"tracker":       "./cmd/tracker",
}

// Dbup runs dbmate to apply db migrations to the reference store database.
func Dbup() error {
	if _, err := exec.LookPath("dbmate"); err != nil {
		fmt.Println(">> dbmate not found; install with:")
		fmt.Println("   go install github.com/amacneil/dbmate/v2@latest")
		return err
	}
	fmt.Println(">> dbmate up")
	return sh.Run("dbmate", "--migrations-dir", "./db/migrations", "up")
}

// Generate runs templ generate targeting the templates directory.
// This must be run before Build or Dev any time a .templ file changes.
func Generate() error {
	if _, err := exec.LookPath("templ"); err != nil {
		fmt.Println(">> templ not found; install with:")
		fmt.Println("   go install github.com/a-h/templ/cmd/templ@latest")
		return err
	}
	fmt.Println(">> templ generate", templDir)
	return sh.Run("templ", "generate", templDir)
}

// Build generates templ output, tidies deps, then compiles the web client, the
// store and the CLI into ./bin.
func Build() error {
	mg.Deps(Generate, Tidy)
	for name, pkg := range binaries {
		fmt.Println(">> Building", name, "...")
		if err := sh.Run("go", "build", "-o", "bin/"+name, pkg); err != nil {
			return err
		}
	}
	return nil
}

// Store builds then runs the reference store.
func Store() error {
	mg.Deps(Build)
	fmt.Println(">> Starting store ...")
	return sh.Run("./bin/tracker-store")
}

// Run builds then executes the web client.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting web client on :8080 ...")
	return sh.Run("./bin/tracker-web")
}

// Dev generates templates, then starts the store and the web client via go run.
// Ctrl-C stops both. Use Watch instead if you want live template reloading.
func Dev() error {
	mg.Deps(Generate)
	fmt.Println(">> Starting store (go run)...")
	store := exec.Command("go", "run", "./cmd/store")
	store.Stdout = os.Stdout
	store.Stderr = os.Stderr
	if err := store.Start(); err != nil {
		return fmt.Errorf("start store: %w", err)
	}

	fmt.Println(">> Starting web client (go run)...")
	web := exec.Command("go", "run", "./cmd/server")
	web.Stdout = os.Stdout
	web.Stderr = os.Stderr
	web.Env = append(os.Environ(), "PORT=8080")
	if err := web.Start(); err != nil {
		store.Process.Kill()
		return fmt.Errorf("start web client: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n>> Shutting down...")
	web.Process.Kill()
	store.Process.Kill()
	return nil
}

// Watch runs templ generate --watch in the background and the web client in
// the foreground. Ctrl-C stops both. Start the store separately.
func Watch() error {
	if _, err := exec.LookPath("templ"); err != nil {
		fmt.Println(">> templ not found; install with:")
		fmt.Println("   go install github.com/a-h/templ/cmd/templ@latest")
		return err
	}

	mg.Deps(Generate)

	fmt.Println(">> Starting templ watcher...")
	watcher := exec.Command("templ", "generate", "--watch", "-f", templDir)
	watcher.Stdout = os.Stdout
	watcher.Stderr = os.Stderr
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start templ watcher: %w", err)
	}

	fmt.Println(">> Starting web client (go run)...")
	web := exec.Command("go", "run", "./cmd/server")
	web.Stdout = os.Stdout
	web.Stderr = os.Stderr
	web.Env = append(os.Environ(), "PORT=8080")
	if err := web.Start(); err != nil {
		watcher.Process.Kill()
		return fmt.Errorf("start web client: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n>> Shutting down...")
	web.Process.Kill()
	watcher.Process.Kill()
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test generates templates then runs all unit tests.
func Test() error {
	mg.Deps(Generate)
	fmt.Println(">> Running tests...")
	return sh.Run("go", "test", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts, generated templ files, and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	os.RemoveAll("bin")
	db := os.Getenv("DB_PATH")
	if db == "" {
		db = "tracker.db"
	}
	os.Remove(db)
	return sh.Run("find", templDir, "-name", "*_templ.go", "-delete")
}

// Install builds and installs the CLI to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.Run("go", "install", "./cmd/tracker")
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
