package main

import "github.com/frahmantamala/deptdesk/cmd"

func main() {
	cmd.Execute()
}
