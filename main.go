package main

import (
	"github.com/wbgen/wbgen/cmd"
)

func main() {
	cmd.Execute()
}
