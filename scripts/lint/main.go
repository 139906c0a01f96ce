// Package main checks formatting with gofumpt and then runs golangci-lint.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

func main() {
	for _, tool := range []string{"gofumpt", "golangci-lint"} {
		if _, err := exec.LookPath(tool); err != nil {
			fmt.Printf("%s not found. Install it with 'go install' before linting\n", tool)
			os.Exit(1)
		}
	}

	fix := len(os.Args) > 1 && os.Args[1] == "--fix"

	fmt.Println("Checking formatting with gofumpt...")
	args := []string{"-l", "."}
	if fix {
		args = []string{"-l", "-w", "."}
	}
	out, err := exec.Command("gofumpt", args...).Output()
	if err != nil {
		fmt.Printf("❌ gofumpt failed: %v\n", err)
		os.Exit(1)
	}
	if files := strings.TrimSpace(string(out)); files != "" && !fix {
		fmt.Printf("❌ Files need formatting (run with --fix):\n%s\n", files)
		os.Exit(1)
	}

	fmt.Println("Linting with golangci-lint...")
	cmd := exec.Command("golangci-lint", "run")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Linting failed: %v\n", err)
		os.Exit(1)
	}
}
