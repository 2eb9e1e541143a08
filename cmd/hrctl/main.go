// Command hrctl is the command line client of the HR API.
//
// Credentials persist between invocations in the configured token store,
// so a later command resumes the session a previous login created.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newCLI(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "hrctl:", err)
		os.Exit(1)
	}
}
