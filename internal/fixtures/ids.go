package fixtures

import (
	"github.com/google/uuid"

	"github.com/ironclad-robotics/attestcore/checkpoint"
)

// fixtureNamespace anchors the deterministic UUIDs this package derives;
// any fixed UUID works, this one has no significance beyond being constant.
var fixtureNamespace = uuid.MustParse("9b1f6c2e-6b8b-4f0a-9b2a-6f3f7a0a8b40")

// RobotID returns a stable RobotId derived from name: the same name always
// produces the same id, across test runs and processes.
func RobotID(name string) checkpoint.RobotId {
	return checkpoint.RobotId(uuid.NewSHA1(fixtureNamespace, []byte("robot:"+name)).String())
}

// MissionID returns a stable MissionId derived from name, same rule as
// RobotID.
func MissionID(name string) checkpoint.MissionId {
	return checkpoint.MissionId(uuid.NewSHA1(fixtureNamespace, []byte("mission:"+name)).String())
}
