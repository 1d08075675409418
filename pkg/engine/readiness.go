package engine

import "github.com/hackos/hackd/pkg/eventdb/model"

// Ready reports whether a team qualifies to enter the submission wizard: both
// member names set, both photo slots filled, a repository linked and an
// archive uploaded. Pure over the record; recomputed on every relevant change.
func Ready(team *model.Team) bool {
	return team.Member1Name != "" &&
		team.Member2Name != "" &&
		team.Photos.Complete() &&
		team.RepoLink != "" &&
		team.ArchiveLocator != ""
}
