//go:build integration
// +build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

func restartMarketContainer(t *testing.T, ctx context.Context) {
	t.Helper()

	cmd := exec.CommandContext(ctx, "docker", "compose", "restart", "marketd")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart marketd failed: %v\n%s", err, string(out))
	}
}
