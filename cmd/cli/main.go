// wotlog - Vehicle Datalog Summarizer
//
// wotlog normalizes vehicle datalog exports, maps their columns to known
// channels and reports full and wide-open-throttle statistics.
package main

import (
	"os"

	"github.com/ccollicutt/wotlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
