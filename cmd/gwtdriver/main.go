package main

import "github.com/devicelab-dev/gwt-driver/pkg/cli"

func main() {
	cli.Execute()
}
