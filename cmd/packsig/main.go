package main

import (
	"github.com/funvibe/packsig/pkg/cli"
)

func main() {
	cli.Run()
}
