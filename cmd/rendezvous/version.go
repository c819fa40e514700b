// version.go implements the 'rendezvous version' command.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/mod/semver"
)

// versionCommand prints the tool version. With -min it also enforces a
// minimum version, exiting non-zero when the running tool is older;
// scripts use this as a guard before relying on newer flags.
func versionCommand(args []string) {
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	minimum := fs.String("min", "", "fail unless the tool is at least this semantic version")
	_ = fs.Parse(args)

	fmt.Printf("rendezvous version v%s\n", version)

	if *minimum == "" {
		return
	}
	if err := checkMinVersion("v"+version, *minimum); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// checkMinVersion compares the running version against a required
// minimum. The required version may be given with or without the
// leading "v".
func checkMinVersion(current, minimum string) error {
	required := minimum
	if !semver.IsValid(required) {
		required = "v" + required
	}
	if !semver.IsValid(required) {
		return fmt.Errorf("invalid version %q", minimum)
	}
	if semver.Compare(current, required) < 0 {
		return fmt.Errorf("rendezvous %s is older than required %s", current, required)
	}
	return nil
}
