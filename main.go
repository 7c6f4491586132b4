package main

import "github.com/chrisdamba/tablepos/cmd"

func main() {
	cmd.Execute()
}
