// storypipe runs the story creation pipeline: sequential generation and
// analysis, a parallel media batch, then final aggregation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
