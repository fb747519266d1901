// Package all registers all shell commands.
package all

import (
	// register commands
	_ "github.com/robotalks/fancylights/pkg/cli/cmds/lights"
	_ "github.com/robotalks/fancylights/pkg/cli/cmds/projector"
)
