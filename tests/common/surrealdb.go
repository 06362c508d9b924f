// Package common provides shared test infrastructure.
package common

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const surrealImage = "surrealdb/surrealdb:v3.0.0"

var (
	surrealOnce sync.Once
	surrealAddr string
	surrealTerm func()
	surrealErr  error
)

// SurrealDBAddress starts one SurrealDB container for the whole test
// process and returns its WebSocket RPC address. Tests isolate
// themselves by using distinct database names, not distinct containers.
func SurrealDBAddress(t *testing.T) string {
	t.Helper()

	surrealOnce.Do(func() {
		ctx := context.Background()

		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        surrealImage,
				ExposedPorts: []string{"8000/tcp"},
				Cmd:          []string{"start", "--user", "root", "--pass", "root"},
				WaitingFor: wait.ForAll(
					wait.ForListeningPort("8000/tcp"),
					wait.ForLog("Started web server"),
				).WithDeadline(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			surrealErr = fmt.Errorf("start surrealdb container: %w", err)
			return
		}
		surrealTerm = func() { c.Terminate(context.Background()) }

		host, err := c.Host(ctx)
		if err != nil {
			surrealErr = fmt.Errorf("resolve surrealdb host: %w", err)
			surrealTerm()
			return
		}
		port, err := c.MappedPort(ctx, "8000/tcp")
		if err != nil {
			surrealErr = fmt.Errorf("resolve surrealdb port: %w", err)
			surrealTerm()
			return
		}

		surrealAddr = fmt.Sprintf("ws://%s:%s/rpc", host, port.Port())
	})

	if surrealErr != nil {
		t.Fatalf("surrealdb container unavailable: %v", surrealErr)
	}
	return surrealAddr
}

// TerminateSurrealDB stops the shared container. Safe to call when no
// container was started.
func TerminateSurrealDB() {
	if surrealTerm != nil {
		surrealTerm()
	}
}
