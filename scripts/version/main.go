// Package main prints the version stamped into jerify builds: the nearest
// v* tag, or "dev" outside a git checkout.
package main

import (
	"fmt"
	"os/exec"
	"strings"
)

func main() {
	out, err := exec.Command("git", "describe", "--tags", "--match", "v*", "--always", "--dirty").Output()
	if err != nil {
		fmt.Print("dev")
		return
	}
	fmt.Print(strings.TrimSpace(string(out)))
}
