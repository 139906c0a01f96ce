package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

func main() {
	binaryName := "jerify"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	versionOut, _ := exec.Command("go", "run", "./scripts/version").Output()
	version := strings.TrimSpace(string(versionOut))
	if version == "" {
		version = "dev"
	}

	ldflags := fmt.Sprintf("-s -w -X github.com/andyballingall/jerify/internal/app.Version=%s", version)

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building jerify %s...\n", version)

	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/jerify")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}
