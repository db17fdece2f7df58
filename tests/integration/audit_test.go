package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/claim-core/internal/infrastructure/auditdb/sqlite"
	"github.com/ersonp/claim-core/internal/infrastructure/config"
)

func TestAuditLogOnDisk(t *testing.T) {
	ctx := t.Context()

	path := filepath.Join(t.TempDir(), "claim.db")
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.EnsureSchema(ctx))

	require.NoError(t, repo.LogAction(ctx, "analyzed", "fp-1", map[string]any{"verdict": "Likely True"}))
	require.NoError(t, repo.LogAction(ctx, "feedback_recorded", "fp-1", map[string]any{"value": "accurate"}))

	// Reopen to confirm the events survived a connection cycle.
	require.NoError(t, repo.Close())

	repo, err = sqlite.NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)

	entries, err := repo.FindByFingerprint(ctx, "fp-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "feedback_recorded", entries[0].Action)
	assert.Equal(t, "analyzed", entries[1].Action)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
