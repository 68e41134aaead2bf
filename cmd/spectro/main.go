// Command spectro is the pigment catalog and spectrum-analysis client.
package main

import "github.com/mesh-intelligence/spectro/internal/cli"

func main() {
	cli.Execute()
}
