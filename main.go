package main

import "github.com/ValentinKolb/hKV/cmd"

func main() {
	cmd.Execute()
}
