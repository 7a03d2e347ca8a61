// main.go
//
// Entry point; every command lives in cmd/.

package main

import (
	"github.com/batchalloc/batchalloc/cmd"
)

func main() {
	cmd.Execute()
}
