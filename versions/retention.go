package versions

import (
	"sort"

	"modhost/db"
)

// devRetentionCount is how many DEV-channel versions a project keeps.
// A uniform, platform-wide cap. TODO: expose per-project overrides if
// projects with CI pipelines ask for a deeper dev history.
const devRetentionCount = 2

// SelectPruneTargets returns the DEV-channel versions that fall
// outside the retention window: everything but the devRetentionCount
// most recently published ones. With that many dev versions or fewer
// the result is empty. The caller deletes the returned versions'
// files and database rows and excludes their ids from the aggregate
// recomputation.
func SelectPruneTargets(all []db.Version) []db.Version {
	var dev []db.Version
	for _, v := range all {
		if v.ReleaseChannel == db.ChannelDev {
			dev = append(dev, v)
		}
	}
	if len(dev) <= devRetentionCount {
		return nil
	}

	sort.Slice(dev, func(i, j int) bool {
		return dev[i].DatePublished.After(dev[j].DatePublished)
	})
	return dev[devRetentionCount:]
}
