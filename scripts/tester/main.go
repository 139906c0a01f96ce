// Package main runs the test suite, optionally with the race detector and a
// coverage report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const coverageFile = "coverage.out"

func main() {
	testArgs, summary, browser := parseFlags(os.Args[1:])

	if summary || browser {
		testArgs = append(testArgs, "-coverprofile="+coverageFile, "-coverpkg=./...")
	}

	if _, err := exec.LookPath("gotestsum"); err == nil && !summary && !browser {
		runCommand("gotestsum", append([]string{"--"}, testArgs...))
	} else {
		runCommand("go", append([]string{"test"}, testArgs...))
	}

	switch {
	case summary:
		runCommand("go", []string{"tool", "cover", "-func", coverageFile})
	case browser:
		runCommand("go", []string{"tool", "cover", "-html", coverageFile})
	}
}

func parseFlags(args []string) (testArgs []string, summary, browser bool) {
	for _, arg := range args {
		switch arg {
		case "--summary":
			summary = true
		case "--browser":
			browser = true
		default:
			testArgs = append(testArgs, arg)
		}
	}
	if len(testArgs) == 0 {
		testArgs = []string{"-race", "./..."}
	}
	return testArgs, summary, browser
}

func runCommand(name string, args []string) {
	cmd := exec.CommandContext(context.Background(), name, args...)
	// Clear Git environment variables to avoid conflicts with git hooks
	cmd.Env = os.Environ()
	for i := len(cmd.Env) - 1; i >= 0; i-- {
		if strings.HasPrefix(cmd.Env[i], "GIT_") {
			cmd.Env = append(cmd.Env[:i], cmd.Env[i+1:]...)
		}
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Command failed: %v\n", err)
		os.Exit(1)
	}
}
