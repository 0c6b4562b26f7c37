package main

import "github.com/webxr-tools/xrdeploy/cmd"

func main() {
	cmd.Execute()
}
