// Command sample sorts the bundled sample relations and prints one item per
// line.
package main

import (
	"fmt"

	"github.com/matzehuels/toposort/pkg/toposort"
)

func main() {
	for _, id := range toposort.Sort(toposort.Sample()) {
		fmt.Println(id)
	}
}
