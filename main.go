package main

import (
	"fmt"
	"github.com/Faheem-Musthafa/sip-n-sync/cmd"
	"os"
)

var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
