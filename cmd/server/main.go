package main

import (
	"github.com/nguyentranbao-ct/complaint-registry/cmd"
)

func main() {
	cmd.Execute()
}
