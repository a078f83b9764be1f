package store

import (
	"fmt"

	"github.com/nhle/calendar/internal/model"
)

// migration upgrades one decoded line from version-1 to version.
type migration struct {
	version int
	upgrade func(fields []string) ([]string, error)
}

// migrations is the ordered list of file format migrations.
// Each migration's version must be sequential starting from 2.
var migrations = []migration{
	{
		// v2 adds the priority column after the description.
		version: 2,
		upgrade: func(fields []string) ([]string, error) {
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: want at least 3 fields, got %d", ErrMalformedLine, len(fields))
			}
			out := make([]string, 0, len(fields)+1)
			out = append(out, fields[:3]...)
			out = append(out, model.PriorityNone.String())
			return append(out, fields[3:]...), nil
		},
	},
}

// currentVersion is the version Encode writes.
var currentVersion = migrations[len(migrations)-1].version

// upgradeFields applies every migration newer than version, in order.
func upgradeFields(fields []string, version int) ([]string, error) {
	if version > currentVersion {
		return nil, fmt.Errorf("%w: file format v%d is newer than v%d", ErrMalformedLine, version, currentVersion)
	}
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		var err error
		if fields, err = m.upgrade(fields); err != nil {
			return nil, fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return fields, nil
}
