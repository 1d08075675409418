package engine

import (
	"testing"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/stretchr/testify/require"
)

func TestReady(t *testing.T) {
	completeTeam := func() *model.Team {
		return &model.Team{
			UnitID:         "AB12",
			Member1Name:    "Alice",
			Member2Name:    "Bob",
			Photos:         model.PhotoList{"ab12_p1_1.jpg", "ab12_p2_2.jpg"},
			RepoLink:       "https://github.com/alice/AB12_Hackathon_Jan",
			ArchiveLocator: "ab12_submission_3.zip",
		}
	}

	var tests = []struct {
		name          string
		mutate        func(team *model.Team)
		readyExpected bool
	}{
		{
			name:          "all requirements met",
			mutate:        func(team *model.Team) {},
			readyExpected: true,
		},
		{
			name:          "missing first member name",
			mutate:        func(team *model.Team) { team.Member1Name = "" },
			readyExpected: false,
		},
		{
			name:          "missing second member name",
			mutate:        func(team *model.Team) { team.Member2Name = "" },
			readyExpected: false,
		},
		{
			name:          "missing one photo",
			mutate:        func(team *model.Team) { team.Photos[1] = "" },
			readyExpected: false,
		},
		{
			name:          "missing both photos",
			mutate:        func(team *model.Team) { team.Photos = model.PhotoList{} },
			readyExpected: false,
		},
		{
			name:          "missing repo link",
			mutate:        func(team *model.Team) { team.RepoLink = "" },
			readyExpected: false,
		},
		{
			name:          "missing archive",
			mutate:        func(team *model.Team) { team.ArchiveLocator = "" },
			readyExpected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			team := completeTeam()
			test.mutate(team)
			require.Equal(t, test.readyExpected, Ready(team))
		})
	}
}
