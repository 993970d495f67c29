package main

import "license-auditor/cmd"

func main() {
	cmd.Execute()
}
