package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// outputJSON marshals v and writes it to stdout followed by a newline,
// matching the one-object-per-line convention the hosting shell expects
// from any non-interactive caller.
func outputJSON(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}

// fail prints msg to stderr and exits 1.
func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
