//go:build !linux

package main

import "os/exec"

// setPlatformSpecificAttrs is a no-op outside Linux. Pdeathsig is not
// available there; child lifecycle is covered by exec.CommandContext's
// termination signal instead.
func setPlatformSpecificAttrs(cmd *exec.Cmd) {}
