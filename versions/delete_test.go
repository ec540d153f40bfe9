package versions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"modhost/db"
)

func TestPruneAll(t *testing.T) {
	svc, gdb := newTestService(t)
	owner := seedUser(t, gdb, db.RoleUser)
	project := seedProject(t, gdb, owner, "prune-all-mod", db.TypeMod)

	// Seed four dev versions directly, bypassing the per-create prune.
	for i := 0; i < 4; i++ {
		v := seedVersion(t, gdb, project.ID, "dev-"+string(rune('a'+i)))
		require.NoError(t, gdb.Model(&db.Version{}).Where("id = ?", v.ID).
			Updates(map[string]interface{}{
				"release_channel": db.ChannelDev,
				"date_published":  time.Now().UTC().Add(-time.Duration(i) * time.Hour),
			}).Error)
	}

	pruned, err := svc.PruneAll()
	require.NoError(t, err)
	require.Equal(t, 2, pruned)

	var remaining int64
	require.NoError(t, gdb.Model(&db.Version{}).Where("project_id = ?", project.ID).Count(&remaining).Error)
	require.EqualValues(t, 2, remaining)
}

func TestSweepOrphans(t *testing.T) {
	svc, gdb := newTestService(t)
	owner := seedUser(t, gdb, db.RoleUser)
	project := seedProject(t, gdb, owner, "sweep-mod", db.TypeMod)

	// A version that never received a primary file, old enough to sweep.
	orphan := seedVersion(t, gdb, project.ID, "orphan")
	require.NoError(t, gdb.Model(&db.Version{}).Where("id = ?", orphan.ID).
		Update("date_published", time.Now().UTC().Add(-48*time.Hour)).Error)

	// A healthy recent version created through the orchestrator.
	result, err := svc.CreateVersion(baseInput(project, owner, "1.0", "healthy payload", t))
	require.NoError(t, err)

	swept, err := svc.SweepOrphans(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, swept)

	var left []db.Version
	require.NoError(t, gdb.Where("project_id = ?", project.ID).Find(&left).Error)
	require.Len(t, left, 1)
	require.Equal(t, result.VersionID, left[0].ID)
}
