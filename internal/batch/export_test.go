package batch

import "time"

func SetClock(j *AssetSweepJob, now func() time.Time) {
	j.now = now
}
