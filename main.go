package main

import "github.com/sterlingsteels/itdesk/cmd"

func main() {
	cmd.Execute()
}
