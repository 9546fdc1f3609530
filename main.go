package main

import "github.com/kebairia/sqlbackup/cmd"

func main() {
	cmd.Execute()
}
