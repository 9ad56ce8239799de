package main

import (
	"os"
	"os/exec"
)

func main() {
	// Forward to the tracker CLI
	cmd := exec.Command("go", append([]string{"run", "./cmd/tracker"}, os.Args[1:]...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
