package rules

import (
	"fmt"

	"github.com/launchgate/launchgate/internal/signal"
)

func evalDeployerReputation(b *signal.Bundle) Outcome {
	const key = "deployer_reputation"
	if !b.HasDeployerData {
		return caution(key, CategoryAdvanced, 5, "deployer history unavailable")
	}
	switch {
	case b.DeployerReputation < 20:
		out := fail(key, CategoryAdvanced, 20, fmt.Sprintf("deployer reputation %.0f below 20", b.DeployerReputation))
		out.Detail = map[string]any{"deployer": b.Deployer, "reputation": b.DeployerReputation}
		return out
	case b.DeployerReputation < 40:
		return fail(key, CategoryAdvanced, 10, fmt.Sprintf("deployer reputation %.0f below 40", b.DeployerReputation))
	}
	return pass(key, CategoryAdvanced, fmt.Sprintf("deployer reputation %.0f", b.DeployerReputation))
}
