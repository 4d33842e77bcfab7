package main

import (
	"github.com/sunnyside/storefront/cmd"
)

func main() {
	cmd.Start()
}
