package actions_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"stackit.dev/restack/internal/actions"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/testhelpers/scenario"
)

// requireAcyclic walks every tracked branch up to trunk
func requireAcyclic(t *testing.T, s *scenario.Scenario) {
	t.Helper()
	eng := s.Engine()
	tracked := eng.AllTrackedBranches()
	for _, branch := range tracked {
		current := branch
		for steps := 0; !eng.IsTrunk(current); steps++ {
			require.LessOrEqual(t, steps, len(tracked), "cycle through %s", branch)
			parent, err := eng.GetParent(current)
			require.NoError(t, err)
			current = parent
		}
	}
}

func TestGraphStaysAcyclic(t *testing.T) {
	for seed := uint64(1); seed <= 3; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed))

			const size = 6
			names := make([]string, size)
			structure := map[string]string{}
			for i := range names {
				names[i] = fmt.Sprintf("b%d", i)
				parent := "main"
				if i > 0 && rng.IntN(3) > 0 {
					parent = names[rng.IntN(i)]
				}
				structure[names[i]] = parent
			}
			s := scenario.NewScenario(t, nil).WithStack(structure)
			requireAcyclic(t, s)

			targets := append([]string{"main"}, names...)
			for range 10 {
				branch := names[rng.IntN(size)]
				target := targets[rng.IntN(len(targets))]

				if rng.IntN(2) == 0 {
					err := s.Engine().SetParent(context.Background(), branch, target)
					if err != nil {
						require.ErrorIs(t, err, restackerrors.ErrCycle)
					}
				} else {
					outcome, err := actions.Onto(s.Context, actions.OntoOptions{BranchName: branch, Onto: target})
					if err != nil {
						var precondition *restackerrors.PreconditionsFailedError
						require.True(t, errors.As(err, &precondition), "unexpected error: %v", err)
						require.ErrorIs(t, err, restackerrors.ErrCycle)
					} else {
						require.Equal(t, actions.Success, outcome)
					}
				}
				requireAcyclic(t, s)
			}
		})
	}
}
