package main

import "github.com/WhereIsMyMindDL/ReyaOGClaimer/cmd"

func main() {
	cmd.Execute()
}
