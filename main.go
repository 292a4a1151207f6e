package main

import (
	"github.com/densho/csujadconvert/cmd"
)

func main() {
	cmd.Execute()
}
