// Package main provides a script to clean up build and test artefacts.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	remove([]string{"bin", "jerify.log"})
	for _, pattern := range []string{"coverage*", "*.out", "*.test", "*.coverprofile"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		remove(matches)
	}
}

func remove(paths []string) {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			fmt.Printf("❌ Failed to remove %s: %v\n", p, err)
			continue
		}
		fmt.Printf("✅ Removed %s\n", p)
	}
}
