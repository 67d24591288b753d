package main

import (
	"atlas-repacker/cli"
)

func main() {
	cli.Start()
}
